package query

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the lifecycle position of a Mutation
type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	}
	return "unknown"
}

// ErrMutationInFlight is returned when a mutation is submitted again while still pending
var ErrMutationInFlight = errors.New("request already in progress")

// Mutation runs one user action: Idle -> Pending -> {Success, Failure}.
// Invalidation happens only on the Success transition.
type Mutation struct {
	name   string
	client *Client

	mu        sync.Mutex
	state     State
	err       error
	settledAt time.Time
}

// Name returns the mutation name
func (m *Mutation) Name() string {
	return m.name
}

// State returns the current state and the error of the last failure
func (m *Mutation) State() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}

// Run executes fn once. While fn runs, further calls fail with ErrMutationInFlight.
// On success the given keys are invalidated before Run returns; a failed
// invalidation is logged and does not turn the mutation into a failure.
func (m *Mutation) Run(ctx context.Context, fn func(ctx context.Context) error, invalidate ...Key) error {
	m.mu.Lock()
	if m.state == StatePending {
		m.mu.Unlock()
		return ErrMutationInFlight
	}
	m.state = StatePending
	m.err = nil
	m.mu.Unlock()

	err := fn(ctx)

	m.mu.Lock()
	m.settledAt = time.Now()
	if err != nil {
		m.state = StateFailure
		m.err = err
		m.mu.Unlock()
		return err
	}
	m.state = StateSuccess
	m.mu.Unlock()

	// the write landed upstream; finish invalidating even if the caller went away
	if invErr := m.client.Invalidate(context.WithoutCancel(ctx), invalidate...); invErr != nil {
		m.client.logger.Warn("invalidation after mutation failed", "mutation", m.name, "error", invErr)
	}
	return nil
}

// Reset returns a settled mutation to Idle
func (m *Mutation) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePending {
		m.state = StateIdle
		m.err = nil
	}
}

func (m *Mutation) settledBefore(cutoff time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSuccess && m.state != StateFailure {
		return false
	}
	return m.settledAt.Before(cutoff)
}
