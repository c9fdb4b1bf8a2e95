package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kislikjeka/finboard/internal/infra/gateway/finapi"
	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/category"
	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/internal/platform/session"
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
	apperrors "github.com/kislikjeka/finboard/internal/shared/errors"
	"github.com/kislikjeka/finboard/pkg/logger"
)

// Notification kinds
const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// invalidFormMessage heads a response whose fields failed validation
const invalidFormMessage = "Please correct the highlighted fields."

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Notification is the toast shown after a mutation
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// MutationResponse is returned by every form submission. On failure the submitted
// form is echoed back so nothing the user typed is lost.
type MutationResponse struct {
	Data         any               `json:"data,omitempty"`
	Notification Notification      `json:"notification"`
	Error        string            `json:"error,omitempty"`
	Code         string            `json:"code,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	Form         map[string]string `json:"form,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// classify maps a service error onto the client-facing taxonomy
func classify(err error) (*apperrors.AppError, map[string]string) {
	if fields, ok := validation.AsErrors(err); ok {
		return apperrors.Validation(invalidFormMessage), fields.Map()
	}

	var (
		overpayment  *validation.OverpaymentError
		insufficient *validation.InsufficientBalanceError
		netErr       *finapi.NetworkError
		apiErr       *finapi.APIError
	)
	switch {
	case errors.As(err, &overpayment):
		return apperrors.Overpayment(overpayment), nil
	case errors.As(err, &insufficient):
		return apperrors.InsufficientBalance(insufficient), nil
	case errors.Is(err, query.ErrMutationInFlight):
		return apperrors.Conflict(query.ErrMutationInFlight.Error()), nil
	case errors.Is(err, session.ErrInvalidCredentials):
		return apperrors.Unauthorized(session.ErrInvalidCredentials.Error()), nil
	case errors.Is(err, loan.ErrLoanPaid), errors.Is(err, pending.ErrAlreadySettled):
		return apperrors.Conflict(err.Error()), nil
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, loan.ErrLoanNotFound),
		errors.Is(err, pending.ErrPendingPaymentNotFound),
		errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, debt.ErrDebtNotFound):
		return apperrors.New(apperrors.ErrCodeNotFound, notFoundMessage(err)), nil
	case errors.As(err, &netErr):
		return apperrors.Network(finapi.NetworkErrorMessage, err), nil
	case errors.As(err, &apiErr):
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, apiErr.Message), nil
	}

	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr, nil
	}
	return apperrors.Internal("internal server error", err), nil
}

func notFoundMessage(err error) string {
	for _, target := range []error{
		account.ErrAccountNotFound,
		loan.ErrLoanNotFound,
		pending.ErrPendingPaymentNotFound,
		category.ErrCategoryNotFound,
		debt.ErrDebtNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "not found"
}

// statusFor picks the HTTP status. Upstream errors keep the finance API's status.
func statusFor(appErr *apperrors.AppError) int {
	if appErr.Code == apperrors.ErrCodeUpstream {
		var apiErr *finapi.APIError
		if errors.As(appErr.Err, &apiErr) && apiErr.StatusCode >= 400 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return appErr.Status()
}

func logFailure(log *logger.Logger, r *http.Request, status int, err error) {
	l := log.WithContext(r.Context())
	if status >= 500 {
		l.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
		return
	}
	l.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
}

// respondQueryError answers a failed screen load
func respondQueryError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr, _ := classify(err)
	status := statusFor(appErr)
	logFailure(log, r, status, err)
	respondJSON(w, ErrorResponse{Error: appErr.Message, Code: appErr.Code}, status)
}

// respondMutation answers a successful submission
func respondMutation(w http.ResponseWriter, data any, message string, statusCode int) {
	respondJSON(w, MutationResponse{
		Data:         data,
		Notification: Notification{Kind: NotifySuccess, Message: message},
	}, statusCode)
}

// respondMutationError answers a failed submission, echoing form
func respondMutationError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, form map[string]string) {
	appErr, fields := classify(err)
	status := statusFor(appErr)
	logFailure(log, r, status, err)
	respondJSON(w, MutationResponse{
		Notification: Notification{Kind: NotifyError, Message: appErr.Message},
		Error:        appErr.Message,
		Code:         appErr.Code,
		Fields:       fields,
		Form:         form,
	}, status)
}
