package category

import (
	"context"
	"fmt"
	"slices"

	"github.com/kislikjeka/finboard/internal/query"
)

// Service provides cached category lookups
type Service struct {
	gw Gateway
}

// NewService creates a new category service
func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

// List returns every category, optionally restricted to one type
func (s *Service) List(ctx context.Context, qc *query.Client, typ string) ([]Category, error) {
	all, err := query.Fetch(ctx, qc, query.KeyCategories, s.gw.ListCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if typ == "" {
		return all, nil
	}
	return slices.DeleteFunc(slices.Clone(all), func(c Category) bool { return c.Type != typ }), nil
}

// Get returns one category from the cached list
func (s *Service) Get(ctx context.Context, qc *query.Client, id int64) (*Category, error) {
	all, err := s.List(ctx, qc, "")
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrCategoryNotFound
}

// CheckSubcategory verifies subcategoryID belongs to categoryID
func (s *Service) CheckSubcategory(ctx context.Context, qc *query.Client, categoryID, subcategoryID int64) error {
	c, err := s.Get(ctx, qc, categoryID)
	if err != nil {
		return err
	}
	if _, ok := c.Subcategory(subcategoryID); !ok {
		return ErrSubcategoryMismatch
	}
	return nil
}
