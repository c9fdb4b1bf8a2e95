package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyStore records invalidations on top of a MemoryStore
type spyStore struct {
	*MemoryStore
	mu      sync.Mutex
	deleted []string
	failGet bool
}

func newSpyStore() *spyStore {
	return &spyStore{MemoryStore: NewMemoryStore()}
}

func (s *spyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.failGet {
		return nil, false, errors.New("store down")
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *spyStore) DeletePrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	s.deleted = append(s.deleted, prefix)
	s.mu.Unlock()
	return s.MemoryStore.DeletePrefix(ctx, prefix)
}

type loanView struct {
	ID        int64  `json:"id"`
	Remaining string `json:"remaining"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "loan:7", LoanKey(7).String())
	assert.Equal(t, "pending-payment:3", PendingPaymentKey(3).String())
	assert.True(t, KeyAccounts.Covers(AccountKey(3, 0, 20)))
	assert.False(t, KeyLoans.Covers(LoanKey(7)))
	assert.False(t, LoanKey(7).Covers(KeyLoans))
	assert.True(t, KeyPendingPayments.Covers(PendingPaymentsKey("high")))
	assert.Equal(t, KeyPendingPayments, PendingPaymentsKey(""))
}

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	c := NewClient(NewMemoryStore(), "sess", time.Minute, nil)

	var loads int32
	load := func(ctx context.Context) (loanView, error) {
		n := atomic.AddInt32(&loads, 1)
		return loanView{ID: 7, Remaining: map[int32]string{1: "100", 2: "50"}[n]}, nil
	}

	v, err := Fetch(ctx, c, LoanKey(7), load)
	require.NoError(t, err)
	assert.Equal(t, "100", v.Remaining)

	v, err = Fetch(ctx, c, LoanKey(7), load)
	require.NoError(t, err)
	assert.Equal(t, "100", v.Remaining)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	require.NoError(t, c.Invalidate(ctx, LoanKey(7)))

	v, err = Fetch(ctx, c, LoanKey(7), load)
	require.NoError(t, err)
	assert.Equal(t, "50", v.Remaining)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestFetch_PrefixInvalidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewClient(store, "sess", time.Minute, nil)

	_, err := Fetch(ctx, c, AccountKey(3, 0, 20), func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	_, err = Fetch(ctx, c, KeyAccounts, func(ctx context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	_, err = Fetch(ctx, c, KeyTransactions, func(ctx context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())

	require.NoError(t, c.Invalidate(ctx, KeyAccounts))
	assert.Equal(t, 1, store.Len())
}

func TestFetch_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewClient(store, "sess", time.Minute, nil)

	_, err := Fetch(ctx, c, KeyLoans, func(ctx context.Context) ([]loanView, error) {
		return nil, errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.Equal(t, 0, store.Len())
}

func TestFetch_StoreFailureFallsThroughToLoad(t *testing.T) {
	store := newSpyStore()
	store.failGet = true
	c := NewClient(store, "sess", time.Minute, nil)

	v, err := Fetch(context.Background(), c, KeyDebts, func(ctx context.Context) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestFetch_ConcurrentMissesShareOneLoad(t *testing.T) {
	ctx := context.Background()
	c := NewClient(NewMemoryStore(), "sess", time.Minute, nil)

	release := make(chan struct{})
	var loads int32
	load := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(ctx, c, KeyCategories, load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFetch_InvalidationDuringLoadSkipsCacheWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewClient(store, "sess", time.Minute, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int)
	go func() {
		v, err := Fetch(ctx, c, KeyPendingPayments, func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	require.NoError(t, c.Invalidate(ctx, KeyPendingPayments))
	close(release)

	assert.Equal(t, 1, <-done)
	assert.Equal(t, 0, store.Len(), "stale result must not be cached")
}

func TestFetch_AbandonedCallerGetsContextError(t *testing.T) {
	c := NewClient(NewMemoryStore(), "sess", time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	errCh := make(chan error)
	go func() {
		_, err := Fetch(ctx, c, KeyLoans, func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	close(release)
}

func TestClient_CloseClearsNamespace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	mine := NewClient(store, "a", time.Minute, nil)
	other := NewClient(store, "b", time.Minute, nil)

	_, err := Fetch(ctx, mine, KeyAccounts, func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	_, err = Fetch(ctx, other, KeyAccounts, func(ctx context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)

	require.NoError(t, mine.Close(ctx))
	assert.Equal(t, 1, store.Len())

	_, err = Fetch(ctx, mine, KeyAccounts, func(ctx context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Second))
	_, ok, _ := store.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok)
}

// racingStore invalidates a key right before each write lands
type racingStore struct {
	*MemoryStore
	client *Client
	key    Key
	once   sync.Once
}

func (s *racingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.once.Do(func() {
		_ = s.client.Invalidate(ctx, s.key)
	})
	return s.MemoryStore.Set(ctx, key, value, ttl)
}

func TestFetch_InvalidationDuringWriteIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{MemoryStore: NewMemoryStore(), key: LoanKey(7)}
	c := NewClient(store, "sess", time.Minute, nil)
	store.client = c

	remaining := "100"
	load := func(ctx context.Context) (loanView, error) {
		return loanView{ID: 7, Remaining: remaining}, nil
	}

	first, err := Fetch(ctx, c, LoanKey(7), load)
	require.NoError(t, err)
	assert.Equal(t, "100", first.Remaining)

	remaining = "50"
	second, err := Fetch(ctx, c, LoanKey(7), load)
	require.NoError(t, err)
	assert.Equal(t, "50", second.Remaining)
}
