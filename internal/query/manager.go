package query

import (
	"context"
	"sync"
	"time"

	"github.com/kislikjeka/finboard/pkg/logger"
)

// DefaultSweepInterval is how often idle clients are looked for
const DefaultSweepInterval = time.Minute

// mutationRetention is how long a settled mutation keeps its state for inspection
const mutationRetention = time.Minute

// Manager owns one Client per session
type Manager struct {
	store   Store
	ttl     time.Duration
	idleTTL time.Duration
	base    *logger.Logger
	logger  *logger.Logger

	mu      sync.Mutex
	clients map[string]*Client
}

// NewManager creates a manager whose clients share store
func NewManager(store Store, ttl, idleTTL time.Duration, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{
		store:   store,
		ttl:     ttl,
		idleTTL: idleTTL,
		base:    log,
		logger:  log.WithField("component", "query_manager"),
		clients: make(map[string]*Client),
	}
}

// For returns the session's client, creating it on first use
func (m *Manager) For(sessionID string) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[sessionID]
	if !ok {
		c = NewClient(m.store, sessionID, m.ttl, m.base)
		m.clients[sessionID] = c
	}
	return c
}

// Drop tears down the session's client and its cached entries (logout)
func (m *Manager) Drop(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	c, ok := m.clients[sessionID]
	delete(m.clients, sessionID)
	m.mu.Unlock()

	if !ok {
		c = NewClient(m.store, sessionID, m.ttl, m.base)
	}
	return c.Close(ctx)
}

// Len returns the number of live clients
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Sweep forgets clients idle for longer than idleTTL and prunes settled mutations
// of the rest. Store entries of forgotten clients are left to expire by TTL so
// another instance can keep serving the session.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, c := range m.clients {
		c.PruneMutations(now.Add(-mutationRetention))
		if m.idleTTL > 0 && now.Sub(c.LastUsed()) > m.idleTTL {
			delete(m.clients, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle clients until ctx is cancelled
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	m.logger.Info("query manager started", "sweep_interval", interval, "idle_ttl", m.idleTTL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("query manager stopped")
			return
		case now := <-ticker.C:
			if n := m.Sweep(now); n > 0 {
				m.logger.Debug("swept idle query clients", "count", n)
			}
		}
	}
}
