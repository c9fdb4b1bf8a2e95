package debt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListDebts(ctx context.Context) ([]Debt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Debt), args.Error(1)
}

func (m *MockGateway) CreateDebt(ctx context.Context, in Input) (*Debt, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Debt), args.Error(1)
}

func TestForm_Validate(t *testing.T) {
	in, err := Form{Name: "Visa", Type: TypeCreditCard, OriginalAmount: "1200", HasInstallments: "on"}.Validate()
	require.NoError(t, err)
	assert.Nil(t, in.InterestRate)
	assert.True(t, in.HasInstallments)

	_, err = Form{Name: "Visa", Type: "gift", OriginalAmount: "1200", InterestRate: "-1"}.Validate()
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.True(t, errs.Has("type"))
	assert.True(t, errs.Has("interest_rate"))
}

func TestService_CreateInvalidatesDebts(t *testing.T) {
	gw := new(MockGateway)
	gw.On("ListDebts", mock.Anything).Return([]Debt{}, nil).Twice()
	gw.On("CreateDebt", mock.Anything, mock.Anything).Return(&Debt{ID: 9}, nil)
	svc := NewService(gw)
	ctx := context.Background()
	qc := query.NewClient(query.NewMemoryStore(), "s", time.Minute, nil)

	_, err := svc.List(ctx, qc)
	require.NoError(t, err)
	_, err = svc.Create(ctx, qc, Form{Name: "Mortgage", Type: TypeMortgage, OriginalAmount: "150000"})
	require.NoError(t, err)
	_, err = svc.List(ctx, qc)
	require.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestService_ListLabels(t *testing.T) {
	gw := new(MockGateway)
	due := "2024-06-22"
	gw.On("ListDebts", mock.Anything).Return([]Debt{{ID: 1, DueDate: &due}}, nil)
	svc := NewService(gw)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC) }

	views, err := svc.List(context.Background(), query.NewClient(query.NewMemoryStore(), "s", time.Minute, nil))
	require.NoError(t, err)
	assert.Equal(t, "due in 7 days", views[0].Due.Label)
	assert.True(t, views[0].Due.Urgent)
}
