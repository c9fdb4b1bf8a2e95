package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finboard/internal/platform/category"
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, in Input) (*Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) CheckSubcategory(ctx context.Context, qc *query.Client, categoryID, subcategoryID int64) error {
	return m.Called(categoryID, subcategoryID).Error(0)
}

func seed(t *testing.T, qc *query.Client, keys ...query.Key) {
	t.Helper()
	for _, k := range keys {
		_, err := query.Fetch(context.Background(), qc, k, func(ctx context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
}

func TestService_CreateInvalidatesAccountsAndTransactions(t *testing.T) {
	store := query.NewMemoryStore()
	qc := query.NewClient(store, "s", time.Minute, nil)
	seed(t, qc, query.KeyAccounts, query.KeyTransactions, query.KeyLoans)

	gw := new(MockGateway)
	gw.On("CreateTransaction", mock.Anything, mock.AnythingOfType("transaction.Input")).
		Return(&Transaction{ID: 5, Type: TypeExpense}, nil).Once()

	svc := NewService(gw, nil)
	created, err := svc.Create(context.Background(), qc, validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, 1, store.Len(), "only loans stays cached")
	gw.AssertExpectations(t)
}

func TestService_CreateFailureKeepsCache(t *testing.T) {
	store := query.NewMemoryStore()
	qc := query.NewClient(store, "s", time.Minute, nil)
	seed(t, qc, query.KeyAccounts, query.KeyTransactions)

	gw := new(MockGateway)
	gw.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil, errors.New("rejected"))

	_, err := NewService(gw, nil).Create(context.Background(), qc, validForm())
	require.Error(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestService_InvalidFormNeverDispatches(t *testing.T) {
	gw := new(MockGateway)
	qc := query.NewClient(query.NewMemoryStore(), "s", time.Minute, nil)

	_, err := NewService(gw, nil).Create(context.Background(), qc, Form{})
	_, ok := validation.AsErrors(err)
	assert.True(t, ok)
	gw.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestService_SubcategoryMismatch(t *testing.T) {
	gw := new(MockGateway)
	checker := new(MockChecker)
	checker.On("CheckSubcategory", int64(2), int64(30)).Return(category.ErrSubcategoryMismatch)
	qc := query.NewClient(query.NewMemoryStore(), "s", time.Minute, nil)

	f := validForm()
	f.SubcategoryID = "30"
	_, err := NewService(gw, checker).Create(context.Background(), qc, f)
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.True(t, errs.Has("subcategoryId"))
	gw.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}
