package category

import "context"

// Gateway reads categories from the finance API
type Gateway interface {
	ListCategories(ctx context.Context) ([]Category, error)
}
