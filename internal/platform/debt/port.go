package debt

import "context"

// Gateway reads and writes debts through the finance API
type Gateway interface {
	ListDebts(ctx context.Context) ([]Debt, error)
	CreateDebt(ctx context.Context, in Input) (*Debt, error)
}
