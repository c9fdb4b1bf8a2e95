package pending

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
)

// MutationCreate names the create-pending-payment mutation
const MutationCreate = "create-pending-payment"

// Service provides the pending payment lifecycle: list, create, mark paid, delete
type Service struct {
	gw       Gateway
	accounts *account.Service
	loans    *loan.Service
	debts    *debt.Service
	now      func() time.Time
}

// NewService creates a new pending payment service.
// accounts, loans and debts back the balance and overpayment checks of MarkPaid; any may be nil.
func NewService(gw Gateway, accounts *account.Service, loans *loan.Service, debts *debt.Service) *Service {
	return &Service{
		gw:       gw,
		accounts: accounts,
		loans:    loans,
		debts:    debts,
		now:      time.Now,
	}
}

// List returns the payments matching filter, sorted for display.
// Priority is filtered by the API; status is matched locally against the derived labels.
func (s *Service) List(ctx context.Context, qc *query.Client, filter Filter) ([]View, error) {
	upstream := Filter{Priority: filter.Priority}
	payments, err := query.Fetch(ctx, qc, query.PendingPaymentsKey(filter.Priority), func(ctx context.Context) ([]PendingPayment, error) {
		return s.gw.ListPendingPayments(ctx, upstream)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}

	now := s.now()
	views := make([]View, 0, len(payments))
	for _, p := range payments {
		v := NewView(p, now)
		if filter.Match(v) {
			views = append(views, v)
		}
	}
	Sort(views)
	return views, nil
}

// Get returns one pending payment
func (s *Service) Get(ctx context.Context, qc *query.Client, id int64) (*View, error) {
	p, err := s.snapshot(ctx, qc, id)
	if err != nil {
		return nil, err
	}
	v := NewView(*p, s.now())
	return &v, nil
}

func (s *Service) snapshot(ctx context.Context, qc *query.Client, id int64) (*PendingPayment, error) {
	p, err := query.Fetch(ctx, qc, query.PendingPaymentKey(id), func(ctx context.Context) (*PendingPayment, error) {
		return s.gw.GetPendingPayment(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payment: %w", err)
	}
	if p == nil {
		return nil, ErrPendingPaymentNotFound
	}
	return p, nil
}

// Create validates and submits a new pending payment
func (s *Service) Create(ctx context.Context, qc *query.Client, form Form) (*PendingPayment, error) {
	in, err := form.Validate()
	if err != nil {
		return nil, err
	}

	var created *PendingPayment
	err = qc.Mutation(MutationCreate).Run(ctx, func(ctx context.Context) error {
		p, err := s.gw.CreatePendingPayment(ctx, in)
		if err != nil {
			return err
		}
		created = p
		return nil
	}, query.KeyPendingPayments)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending payment: %w", err)
	}
	return created, nil
}

// MarkPaid settles a pending payment. The API creates the backing transaction and
// flips the status atomically; here the amount is checked against the paying
// account's balance and, for linked payments, against the loan's remaining amount
// or the debt's original amount.
func (s *Service) MarkPaid(ctx context.Context, qc *query.Client, id int64, form PayForm) (*PendingPayment, error) {
	in, err := form.Validate()
	if err != nil {
		return nil, err
	}

	p, err := s.snapshot(ctx, qc, id)
	if err != nil {
		return nil, err
	}
	if p.Settled() {
		return nil, ErrAlreadySettled
	}

	if s.accounts != nil {
		acc, err := s.accounts.Find(ctx, qc, in.AccountID)
		if err != nil {
			return nil, err
		}
		if err := validation.CheckBalance(p.Amount.Decimal, acc.Balance.Decimal); err != nil {
			return nil, err
		}
	}
	if p.LoanID != nil && s.loans != nil {
		l, err := s.loans.Snapshot(ctx, qc, *p.LoanID)
		if err != nil {
			return nil, err
		}
		if err := validation.CheckOverpayment(p.Amount.Decimal, l.RemainingAmount.Decimal); err != nil {
			return nil, err
		}
	}
	if p.DebtID != nil && s.debts != nil {
		d, err := s.debts.Find(ctx, qc, *p.DebtID)
		if err != nil {
			return nil, err
		}
		if err := validation.CheckOverpayment(p.Amount.Decimal, d.OriginalAmount.Decimal); err != nil {
			return nil, err
		}
	}

	var paid *PendingPayment
	err = qc.Mutation("mark-paid:"+strconv.FormatInt(id, 10)).Run(ctx, func(ctx context.Context) error {
		updated, err := s.gw.MarkPendingPaymentPaid(ctx, id, in)
		if err != nil {
			return err
		}
		paid = updated
		return nil
	}, query.KeyPendingPayments, query.PendingPaymentKey(id), query.KeyAccounts, query.KeyTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to mark pending payment paid: %w", err)
	}
	return paid, nil
}

// Delete removes a pending payment. Deleting twice is an error reported by the API.
func (s *Service) Delete(ctx context.Context, qc *query.Client, id int64) error {
	err := qc.Mutation("delete-pending-payment:"+strconv.FormatInt(id, 10)).Run(ctx, func(ctx context.Context) error {
		return s.gw.DeletePendingPayment(ctx, id)
	}, query.KeyPendingPayments, query.PendingPaymentKey(id))
	if err != nil {
		return fmt.Errorf("failed to delete pending payment: %w", err)
	}
	return nil
}
