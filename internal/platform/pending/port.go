package pending

import "context"

// Gateway reads and writes pending payments through the finance API
type Gateway interface {
	ListPendingPayments(ctx context.Context, filter Filter) ([]PendingPayment, error)
	GetPendingPayment(ctx context.Context, id int64) (*PendingPayment, error)
	CreatePendingPayment(ctx context.Context, in Input) (*PendingPayment, error)
	// MarkPendingPaymentPaid creates the backing transaction and flips the status in one call
	MarkPendingPaymentPaid(ctx context.Context, id int64, in PayInput) (*PendingPayment, error)
	DeletePendingPayment(ctx context.Context, id int64) error
}
