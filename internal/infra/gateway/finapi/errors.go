package finapi

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericErrorMessage is shown when a failed response carries no readable error
const GenericErrorMessage = "The request could not be completed. Please try again."

// NetworkErrorMessage is shown when no response was received
const NetworkErrorMessage = "Could not reach the server. Check your connection and try again."

// APIError is a non-2xx response (or a 2xx with success=false) from the finance API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finance API error (status %d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the API rejected the session
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NetworkError means no usable response arrived: connection failure, timeout or a
// body that could not be read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("finance API %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAPIError checks if an error is (or wraps) an APIError
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// IsNetworkError checks if an error is (or wraps) a NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsUnauthorized checks if an error is an APIError rejecting the session
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Unauthorized()
}
