package loan

import "errors"

var (
	ErrLoanNotFound = errors.New("loan not found")
	ErrLoanPaid     = errors.New("loan is already paid off")
)
