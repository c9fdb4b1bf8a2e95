package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/kislikjeka/finboard/internal/query"
)

// MutationCreate names the create-debt mutation
const MutationCreate = "create-debt"

// Service provides debt views and creation
type Service struct {
	gw  Gateway
	now func() time.Time
}

// NewService creates a new debt service
func NewService(gw Gateway) *Service {
	return &Service{gw: gw, now: time.Now}
}

// List returns every debt with its labels
func (s *Service) List(ctx context.Context, qc *query.Client) ([]View, error) {
	debts, err := query.Fetch(ctx, qc, query.KeyDebts, s.gw.ListDebts)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	now := s.now()
	views := make([]View, len(debts))
	for i, d := range debts {
		views[i] = NewView(d, now)
	}
	return views, nil
}

// Find returns one debt from the cached debt list
func (s *Service) Find(ctx context.Context, qc *query.Client, id int64) (*Debt, error) {
	debts, err := query.Fetch(ctx, qc, query.KeyDebts, s.gw.ListDebts)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	for i := range debts {
		if debts[i].ID == id {
			return &debts[i], nil
		}
	}
	return nil, ErrDebtNotFound
}

// Create validates and submits a new debt
func (s *Service) Create(ctx context.Context, qc *query.Client, form Form) (*Debt, error) {
	in, err := form.Validate()
	if err != nil {
		return nil, err
	}

	var created *Debt
	err = qc.Mutation(MutationCreate).Run(ctx, func(ctx context.Context) error {
		d, err := s.gw.CreateDebt(ctx, in)
		if err != nil {
			return err
		}
		created = d
		return nil
	}, query.KeyDebts)
	if err != nil {
		return nil, fmt.Errorf("failed to create debt: %w", err)
	}
	return created, nil
}
