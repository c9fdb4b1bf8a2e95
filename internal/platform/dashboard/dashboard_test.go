package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finboard/internal/platform/account"
	"github.com/kislikjeka/finboard/internal/platform/debt"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/internal/query"
	"github.com/kislikjeka/finboard/pkg/money"
)

func num(s string) money.Number {
	return money.NewNumber(decimal.RequireFromString(s))
}

func ptr(s string) *string { return &s }

// gateways combines the loan and pending gateways so both can be embedded without a field-name clash
type gateways interface {
	loan.Gateway
	pending.Gateway
}

type fakeAPI struct {
	gateways
	failDebts bool
}

func (f fakeAPI) ListAccounts(ctx context.Context) ([]account.Account, error) {
	return []account.Account{{ID: 1, Balance: num("100.50")}, {ID: 2, Balance: num("19.50")}}, nil
}

func (f fakeAPI) GetAccount(ctx context.Context, id int64, page account.Page) (*account.Detail, error) {
	return nil, account.ErrAccountNotFound
}

func (f fakeAPI) ListLoans(ctx context.Context) ([]loan.Loan, error) {
	soon := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	return []loan.Loan{
		{ID: 1, Status: loan.StatusActive, RemainingAmount: num("40"), DueDate: &soon},
		{ID: 2, Status: loan.StatusPaid, RemainingAmount: num("0")},
	}, nil
}

func (f fakeAPI) ListPendingPayments(ctx context.Context, filter pending.Filter) ([]pending.PendingPayment, error) {
	return []pending.PendingPayment{
		{ID: 1, Status: pending.StatusOverdue, Amount: num("10"), Priority: pending.PriorityHigh},
		{ID: 2, Status: pending.StatusPending, Amount: num("5"), DueDate: ptr("2999-01-01"), Priority: pending.PriorityLow},
		{ID: 3, Status: pending.StatusPaid, Amount: num("7"), Priority: pending.PriorityLow},
	}, nil
}

func (f fakeAPI) ListDebts(ctx context.Context) ([]debt.Debt, error) {
	if f.failDebts {
		return nil, errors.New("debts unavailable")
	}
	return []debt.Debt{{ID: 1, Name: "Card"}}, nil
}

func (f fakeAPI) CreateDebt(ctx context.Context, in debt.Input) (*debt.Debt, error) {
	return nil, errors.New("not used")
}

func newService(api fakeAPI) *Service {
	accounts := account.NewService(api)
	loans := loan.NewService(api, accounts, nil)
	debts := debt.NewService(api)
	return NewService(accounts, loans, pending.NewService(api, accounts, loans, debts), debts)
}

func TestService_Build(t *testing.T) {
	qc := query.NewClient(query.NewMemoryStore(), "s", time.Minute, nil)

	d, err := newService(fakeAPI{}).Build(context.Background(), qc)
	require.NoError(t, err)

	assert.Equal(t, "120", d.TotalBalance.String())
	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, int64(1), d.Upcoming[0].ID)
	assert.Equal(t, 2, d.PendingSummary.Open)
	assert.Equal(t, 1, d.Loans.Active)
	assert.Equal(t, "40", d.Loans.Outstanding.String())
	assert.Len(t, d.Loans.DueSoon, 1)
	assert.Len(t, d.Debts, 1)
}

func TestService_BuildFailsWithAnySection(t *testing.T) {
	qc := query.NewClient(query.NewMemoryStore(), "s", time.Minute, nil)

	_, err := newService(fakeAPI{failDebts: true}).Build(context.Background(), qc)
	assert.ErrorContains(t, err, "debts unavailable")
}
