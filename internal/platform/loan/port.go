package loan

import "context"

// Gateway reads and writes loans through the finance API
type Gateway interface {
	ListLoans(ctx context.Context) ([]Loan, error)
	// GetLoan returns the loan with its payments
	GetLoan(ctx context.Context, id int64) (*Loan, error)
	CreateLoan(ctx context.Context, in Input) (*Loan, error)
	// DeleteLoan fails when the loan still has transactions; the API message is kept verbatim
	DeleteLoan(ctx context.Context, id int64) error
}
