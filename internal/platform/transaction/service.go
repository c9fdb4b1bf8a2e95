package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/kislikjeka/finboard/internal/platform/category"
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
)

// MutationCreate names the create-transaction mutation
const MutationCreate = "create-transaction"

// Service submits transactions
type Service struct {
	gw         Gateway
	categories SubcategoryChecker
}

// NewService creates a new transaction service
func NewService(gw Gateway, categories SubcategoryChecker) *Service {
	return &Service{gw: gw, categories: categories}
}

// Create validates and submits a transaction form
func (s *Service) Create(ctx context.Context, qc *query.Client, form Form) (*Transaction, error) {
	in, err := form.Validate()
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, qc, MutationCreate, in)
}

// Submit dispatches an already validated input under the named mutation.
// Loan payments use their own mutation name so they do not block plain transactions.
func (s *Service) Submit(ctx context.Context, qc *query.Client, mutation string, in Input) (*Transaction, error) {
	if in.SubcategoryID != nil && s.categories != nil {
		if err := s.categories.CheckSubcategory(ctx, qc, in.CategoryID, *in.SubcategoryID); err != nil {
			if errors.Is(err, category.ErrSubcategoryMismatch) || errors.Is(err, category.ErrCategoryNotFound) {
				var errs validation.Errors
				errs.Add("subcategoryId", "does not belong to the selected category")
				return nil, errs
			}
			return nil, err
		}
	}

	var created *Transaction
	err := qc.Mutation(mutation).Run(ctx, func(ctx context.Context) error {
		t, err := s.gw.CreateTransaction(ctx, in)
		if err != nil {
			return err
		}
		created = t
		return nil
	}, in.InvalidatedKeys()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}
