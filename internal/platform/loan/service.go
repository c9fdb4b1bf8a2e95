package loan

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
)

// MutationCreate names the create-loan mutation
const MutationCreate = "create-loan"

// Service provides loan views and mutations
type Service struct {
	gw           Gateway
	accounts     *account.Service
	transactions *transaction.Service
	now          func() time.Time
}

// NewService creates a new loan service
func NewService(gw Gateway, accounts *account.Service, transactions *transaction.Service) *Service {
	return &Service{
		gw:           gw,
		accounts:     accounts,
		transactions: transactions,
		now:          time.Now,
	}
}

// List returns every loan with its labels
func (s *Service) List(ctx context.Context, qc *query.Client) ([]View, error) {
	loans, err := query.Fetch(ctx, qc, query.KeyLoans, s.gw.ListLoans)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	now := s.now()
	views := make([]View, len(loans))
	for i, l := range loans {
		views[i] = NewView(l, now)
	}
	return views, nil
}

// Get returns one loan with its payments
func (s *Service) Get(ctx context.Context, qc *query.Client, id int64) (*View, error) {
	l, err := s.Snapshot(ctx, qc, id)
	if err != nil {
		return nil, err
	}
	v := NewView(*l, s.now())
	return &v, nil
}

// Snapshot returns the cached loan, the basis of overpayment checks
func (s *Service) Snapshot(ctx context.Context, qc *query.Client, id int64) (*Loan, error) {
	l, err := query.Fetch(ctx, qc, query.LoanKey(id), func(ctx context.Context) (*Loan, error) {
		return s.gw.GetLoan(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if l == nil {
		return nil, ErrLoanNotFound
	}
	return l, nil
}

// Create validates and submits a new loan. When the money comes out of an account,
// the account must hold at least the lent amount.
func (s *Service) Create(ctx context.Context, qc *query.Client, form Form) (*Loan, error) {
	in, err := form.Validate()
	if err != nil {
		return nil, err
	}

	if in.AccountID != nil && s.accounts != nil {
		acc, err := s.accounts.Find(ctx, qc, *in.AccountID)
		if err != nil {
			return nil, err
		}
		if err := validation.CheckBalance(in.OriginalAmount.Decimal, acc.Balance.Decimal); err != nil {
			return nil, err
		}
	}

	var created *Loan
	err = qc.Mutation(MutationCreate).Run(ctx, func(ctx context.Context) error {
		l, err := s.gw.CreateLoan(ctx, in)
		if err != nil {
			return err
		}
		created = l
		return nil
	}, query.KeyLoans, query.KeyAccounts)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	return created, nil
}

// Delete removes a loan. Deleting twice is an error reported by the API.
func (s *Service) Delete(ctx context.Context, qc *query.Client, id int64) error {
	err := qc.Mutation("delete-loan:"+strconv.FormatInt(id, 10)).Run(ctx, func(ctx context.Context) error {
		return s.gw.DeleteLoan(ctx, id)
	}, query.KeyLoans, query.LoanKey(id))
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return nil
}

// RegisterPayment records a repayment as a loan_payment transaction.
// A payment larger than the remaining amount is rejected before dispatch.
func (s *Service) RegisterPayment(ctx context.Context, qc *query.Client, id int64, form PaymentForm) (*transaction.Transaction, error) {
	loanID := strconv.FormatInt(id, 10)
	in, err := form.TransactionForm(loanID).Validate()
	if err != nil {
		return nil, err
	}

	l, err := s.Snapshot(ctx, qc, id)
	if err != nil {
		return nil, err
	}
	if l.Status == StatusPaid {
		return nil, ErrLoanPaid
	}
	if err := validation.CheckOverpayment(in.Amount, l.RemainingAmount.Decimal); err != nil {
		return nil, err
	}

	return s.transactions.Submit(ctx, qc, "loan-payment:"+loanID, in)
}
