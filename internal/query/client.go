// Package query is the keyed view cache shared by screens and mutations.
// A Client is scoped to one session: it is created on first use, torn down on logout,
// and every key it writes lives under the session's namespace in the Store.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kislikjeka/finboard/pkg/logger"
)

// DefaultTTL bounds how long a view stays cached without an invalidation
const DefaultTTL = 5 * time.Minute

// ErrClientClosed is returned by a Client after Close
var ErrClientClosed = errors.New("query client closed")

// Client caches views for one namespace
type Client struct {
	store     Store
	namespace string
	ttl       time.Duration
	logger    *logger.Logger

	group singleflight.Group

	mu          sync.Mutex
	version     uint64
	invalidated []invalidation
	mutations   map[string]*Mutation
	closed      bool

	lastUsed atomic.Int64
}

type invalidation struct {
	key     Key
	version uint64
}

// maxTracked bounds the invalidation history used by in-flight fetches
const maxTracked = 256

// NewClient creates a client writing to store under namespace
func NewClient(store Store, namespace string, ttl time.Duration, log *logger.Logger) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Discard()
	}
	c := &Client{
		store:     store,
		namespace: namespace,
		ttl:       ttl,
		logger:    log.WithField("component", "query"),
		mutations: make(map[string]*Mutation),
	}
	c.touch()
	return c
}

// Namespace returns the store prefix of this client
func (c *Client) Namespace() string {
	return c.namespace
}

// Fetch returns the cached value for key, loading it on a miss.
// Concurrent misses for one key share a single load. A load that overlaps an
// invalidation of its key is returned to callers but not cached, and a caller whose
// context ends before the load completes gets ctx.Err() instead of the data.
func Fetch[T any](ctx context.Context, c *Client, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	return FetchTTL(ctx, c, key, c.ttl, load)
}

// FetchTTL is Fetch with a per-key lifetime instead of the client default
func FetchTTL[T any](ctx context.Context, c *Client, key Key, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.checkOpen(); err != nil {
		return zero, err
	}
	c.touch()

	full := c.fullKey(key)
	if raw, ok, err := c.store.Get(ctx, full); err != nil {
		c.logger.Warn("cache read failed", "key", key.String(), "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			c.logger.Debug("cache hit", "key", key.String())
			return v, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "key", key.String())
	}

	ch := c.group.DoChan(full, func() (any, error) {
		started := c.currentVersion()
		// the load outlives any single caller so the shared result is not poisoned by one cancel
		loadCtx := context.WithoutCancel(ctx)
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if c.invalidatedSince(key, started) {
			c.logger.Debug("skipping cache write after invalidation", "key", key.String())
			return raw, nil
		}
		if err := c.store.Set(loadCtx, full, raw, ttl); err != nil {
			c.logger.Warn("cache write failed", "key", key.String(), "error", err)
			return raw, nil
		}
		// an invalidation may have landed between the check and the write
		if c.invalidatedSince(key, started) {
			if err := c.store.DeletePrefix(loadCtx, full); err != nil {
				c.logger.Warn("failed to retract stale cache write", "key", key.String(), "error", err)
			}
		}
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		var v T
		if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
			return zero, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		return v, nil
	}
}

// Invalidate marks keys stale so the next Fetch reloads them. Every key is attempted;
// store failures are joined into the returned error.
func (c *Client) Invalidate(ctx context.Context, keys ...Key) error {
	c.touch()
	var errs []error
	for _, key := range keys {
		c.recordInvalidation(key)
		c.group.Forget(c.fullKey(key))
		if err := c.store.DeletePrefix(ctx, c.fullKey(key)); err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", key, err))
			continue
		}
		c.logger.Debug("invalidated", "key", key.String())
	}
	return errors.Join(errs...)
}

// Mutation returns the state machine for the named mutation, creating it Idle.
// Names should include the target id ("mark-paid:7") so unrelated forms do not block each other.
func (c *Client) Mutation(name string) *Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.mutations[name]
	if !ok {
		m = &Mutation{name: name, client: c}
		c.mutations[name] = m
	}
	return m
}

// PruneMutations forgets mutations that settled before cutoff. Pending and
// never-run mutations are kept.
func (c *Client) PruneMutations(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for name, m := range c.mutations {
		if m.settledBefore(cutoff) {
			delete(c.mutations, name)
			removed++
		}
	}
	return removed
}

// Close drops every entry in the namespace. The client refuses further fetches.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	if err := c.store.DeletePrefix(ctx, c.namespace); err != nil {
		return fmt.Errorf("failed to clear namespace: %w", err)
	}
	return nil
}

// LastUsed reports the last time the client served a fetch or invalidation
func (c *Client) LastUsed() time.Time {
	return time.Unix(0, c.lastUsed.Load())
}

func (c *Client) touch() {
	c.lastUsed.Store(time.Now().UnixNano())
}

func (c *Client) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

func (c *Client) fullKey(key Key) string {
	return c.namespace + ":" + key.String()
}

func (c *Client) currentVersion() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *Client) recordInvalidation(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.invalidated = append(c.invalidated, invalidation{key: key, version: c.version})
	if len(c.invalidated) > maxTracked {
		c.invalidated = c.invalidated[len(c.invalidated)-maxTracked:]
	}
}

func (c *Client) invalidatedSince(key Key, since uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.invalidated) > 0 && c.invalidated[0].version > since+1 && c.version > since {
		// history was trimmed past the fetch start; assume the worst
		return true
	}
	for _, inv := range c.invalidated {
		if inv.version > since && inv.key.Covers(key) {
			return true
		}
	}
	return false
}
