package transaction

import (
	"context"

	"github.com/kislikjeka/finboard/internal/query"
)

// Gateway writes transactions to the finance API
type Gateway interface {
	// CreateTransaction submits in as a multipart form
	CreateTransaction(ctx context.Context, in Input) (*Transaction, error)
}

// SubcategoryChecker verifies a subcategory belongs to its category
type SubcategoryChecker interface {
	CheckSubcategory(ctx context.Context, qc *query.Client, categoryID, subcategoryID int64) error
}
