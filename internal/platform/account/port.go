package account

import "context"

// Gateway reads accounts from the finance API
type Gateway interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	GetAccount(ctx context.Context, id int64, page Page) (*Detail, error)
}
