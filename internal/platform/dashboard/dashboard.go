// Package dashboard assembles the landing screen from the per-entity services.
package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/money"
)

// maxUpcoming caps the pending payments shown on the dashboard
const maxUpcoming = 5

// Dashboard is the landing screen view model
type Dashboard struct {
	Accounts       []account.Account `json:"accounts"`
	TotalBalance   money.Number      `json:"total_balance"`
	Upcoming       []pending.View    `json:"upcoming_payments"`
	PendingSummary pending.Summary   `json:"pending_summary"`
	Loans          LoanSummary       `json:"loans"`
	Debts          []debt.View       `json:"debts"`
}

// LoanSummary aggregates money lent out
type LoanSummary struct {
	Active      int          `json:"active"`
	Overdue     int          `json:"overdue"`
	Outstanding money.Number `json:"outstanding"`
	DueSoon     []loan.View  `json:"due_soon"`
}

// Service builds the dashboard
type Service struct {
	accounts *account.Service
	loans    *loan.Service
	pending  *pending.Service
	debts    *debt.Service
}

// NewService creates a new dashboard service
func NewService(accounts *account.Service, loans *loan.Service, pending *pending.Service, debts *debt.Service) *Service {
	return &Service{accounts: accounts, loans: loans, pending: pending, debts: debts}
}

// Build fetches every section concurrently. Any failing section fails the dashboard.
func (s *Service) Build(ctx context.Context, qc *query.Client) (*Dashboard, error) {
	var (
		accounts []account.Account
		loans    []loan.View
		payments []pending.View
		debts    []debt.View
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.List(gctx, qc)
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = s.loans.List(gctx, qc)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.pending.List(gctx, qc, pending.Filter{})
		return err
	})
	g.Go(func() error {
		var err error
		debts, err = s.debts.List(gctx, qc)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return &Dashboard{
		Accounts:       accounts,
		TotalBalance:   money.NewNumber(account.TotalBalance(accounts)),
		Upcoming:       upcoming(payments),
		PendingSummary: pending.Summarize(payments),
		Loans:          summarizeLoans(loans),
		Debts:          debts,
	}, nil
}

// upcoming keeps open payments that are overdue or urgent, already sorted by the service
func upcoming(views []pending.View) []pending.View {
	out := make([]pending.View, 0, maxUpcoming)
	for _, v := range views {
		if v.Settled() || !(v.Due.Overdue || v.Due.Urgent) {
			continue
		}
		out = append(out, v)
		if len(out) == maxUpcoming {
			break
		}
	}
	return out
}

func summarizeLoans(views []loan.View) LoanSummary {
	var s LoanSummary
	var remaining []decimal.Decimal
	for _, v := range views {
		if v.Status == loan.StatusPaid {
			continue
		}
		s.Active++
		remaining = append(remaining, v.RemainingAmount.Decimal)
		if v.Due.Overdue {
			s.Overdue++
		}
		if v.Due.Overdue || v.Due.Urgent {
			s.DueSoon = append(s.DueSoon, v)
		}
	}
	s.Outstanding = money.NewNumber(money.Sum(remaining...))
	return s
}
