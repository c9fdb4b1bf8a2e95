package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutation_SuccessInvalidates(t *testing.T) {
	store := newSpyStore()
	c := NewClient(store, "sess", time.Minute, nil)
	m := c.Mutation("mark-paid:7")

	state, _ := m.State()
	assert.Equal(t, StateIdle, state)

	err := m.Run(context.Background(), func(ctx context.Context) error { return nil },
		KeyPendingPayments, PendingPaymentKey(7), KeyAccounts, KeyTransactions)
	require.NoError(t, err)

	state, _ = m.State()
	assert.Equal(t, StateSuccess, state)
	assert.Equal(t, []string{
		"sess:pending-payments",
		"sess:pending-payment:7",
		"sess:accounts",
		"sess:transactions",
	}, store.deleted)
}

func TestMutation_FailureDoesNotInvalidate(t *testing.T) {
	store := newSpyStore()
	c := NewClient(store, "sess", time.Minute, nil)
	m := c.Mutation("create-loan")

	boom := errors.New("upstream rejected")
	err := m.Run(context.Background(), func(ctx context.Context) error { return boom }, KeyLoans, KeyAccounts)
	require.ErrorIs(t, err, boom)

	state, lastErr := m.State()
	assert.Equal(t, StateFailure, state)
	assert.ErrorIs(t, lastErr, boom)
	assert.Empty(t, store.deleted)
}

func TestMutation_RejectsDuplicateWhilePending(t *testing.T) {
	c := NewClient(NewMemoryStore(), "sess", time.Minute, nil)
	m := c.Mutation("create-transaction")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- m.Run(context.Background(), func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	state, _ := m.State()
	assert.Equal(t, StatePending, state)

	var calls int
	err := m.Run(context.Background(), func(ctx context.Context) error { calls++; return nil })
	assert.ErrorIs(t, err, ErrMutationInFlight)
	assert.Zero(t, calls)

	close(release)
	require.NoError(t, <-done)

	// settled mutations accept the next submission
	require.NoError(t, m.Run(context.Background(), func(ctx context.Context) error { return nil }))
}

func TestClient_MutationRegistry(t *testing.T) {
	c := NewClient(NewMemoryStore(), "sess", time.Minute, nil)
	assert.Same(t, c.Mutation("delete-loan:1"), c.Mutation("delete-loan:1"))
	assert.NotSame(t, c.Mutation("delete-loan:1"), c.Mutation("delete-loan:2"))

	m := c.Mutation("x")
	_ = m.Run(context.Background(), func(ctx context.Context) error { return errors.New("no") })
	m.Reset()
	state, err := m.State()
	assert.Equal(t, StateIdle, state)
	assert.NoError(t, err)
	assert.Equal(t, "idle", StateIdle.String())
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, time.Minute, time.Hour, nil)

	a := m.For("a")
	assert.Same(t, a, m.For("a"))
	assert.Equal(t, 1, m.Len())

	_, err := Fetch(ctx, a, KeyAccounts, func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	require.NoError(t, m.Drop(ctx, "a"))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, store.Len())
	assert.NotSame(t, a, m.For("a"))

	assert.Equal(t, 0, m.Sweep(time.Now()))
	assert.Equal(t, 1, m.Sweep(time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, m.Len())
}

func TestManager_SweepPrunesSettledMutations(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), time.Minute, time.Hour, nil)
	c := m.For("a")

	require.NoError(t, c.Mutation("mark-paid:1").Run(ctx, func(ctx context.Context) error { return nil }))
	_ = c.Mutation("mark-paid:2").Run(ctx, func(ctx context.Context) error { return errors.New("no") })
	idle := c.Mutation("mark-paid:3")

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error)
	pending := c.Mutation("mark-paid:4")
	go func() {
		done <- pending.Run(ctx, func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	m.Sweep(time.Now())
	assert.Len(t, c.mutations, 4, "recently settled mutations are retained")

	m.Sweep(time.Now().Add(2 * mutationRetention))
	c.mu.Lock()
	names := make([]string, 0, len(c.mutations))
	for name := range c.mutations {
		names = append(names, name)
	}
	c.mu.Unlock()
	assert.ElementsMatch(t, []string{"mark-paid:3", "mark-paid:4"}, names)
	assert.Same(t, idle, c.Mutation("mark-paid:3"))
	assert.Same(t, pending, c.Mutation("mark-paid:4"))

	close(release)
	require.NoError(t, <-done)
}
