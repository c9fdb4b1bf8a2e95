package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finboard/pkg/money"
)

// FieldError is a single field-scoped validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field errors in the order they were found.
// A nil or empty Errors means the form is valid.
type Errors []FieldError

// Add records a failure for field. Only the first failure per field is kept.
func (e *Errors) Add(field, message string) {
	for _, fe := range *e {
		if fe.Field == field {
			return
		}
	}
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Has reports whether field failed
func (e Errors) Has(field string) bool {
	return e.Get(field) != ""
}

// Get returns the message for field, or ""
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Map returns field → message, for JSON responses
func (e Errors) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, fe := range e {
		m[fe.Field] = fe.Message
	}
	return m
}

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when there is nothing to report.
// Always return through Err so a typed-nil Errors never escapes as a non-nil error.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extracts field errors from err
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// OverpaymentError rejects a payment that exceeds what is still owed.
// It is a business rule layered on top of field validation.
type OverpaymentError struct {
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds the remaining %s", money.Format(e.Amount), money.Format(e.Remaining))
}

// InsufficientBalanceError rejects a debit larger than the account balance
type InsufficientBalanceError struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("amount %s exceeds the account balance of %s", money.Format(e.Amount), money.Format(e.Balance))
}

// CheckOverpayment returns an OverpaymentError when amount exceeds a positive remaining balance
func CheckOverpayment(amount, remaining decimal.Decimal) error {
	if remaining.IsPositive() && amount.GreaterThan(remaining) {
		return &OverpaymentError{Amount: amount, Remaining: remaining}
	}
	return nil
}

// CheckBalance returns an InsufficientBalanceError when amount exceeds balance
func CheckBalance(amount, balance decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return &InsufficientBalanceError{Amount: amount, Balance: balance}
	}
	return nil
}

// IsOverpayment checks if an error is (or wraps) an OverpaymentError
func IsOverpayment(err error) bool {
	var oe *OverpaymentError
	return errors.As(err, &oe)
}

// IsInsufficientBalance checks if an error is (or wraps) an InsufficientBalanceError
func IsInsufficientBalance(err error) bool {
	var ie *InsufficientBalanceError
	return errors.As(err, &ie)
}
