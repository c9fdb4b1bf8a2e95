package pending

import "errors"

var (
	ErrPendingPaymentNotFound = errors.New("pending payment not found")
	ErrAlreadySettled         = errors.New("pending payment is already paid or cancelled")
)
