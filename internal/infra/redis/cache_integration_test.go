//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kislikjeka/finboard/internal/query"
)

func setupRedis(t *testing.T) *Cache {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := NewClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, nil)
}

func TestCache_Integration_DeletePrefix(t *testing.T) {
	cache := setupRedis(t)
	ctx := context.Background()

	var _ query.Store = cache

	for _, key := range []string{"s1:accounts", "s1:accounts:3:0:20", "s1:accounts-extra", "s1:loans", "s2:accounts"} {
		require.NoError(t, cache.Set(ctx, key, []byte(`1`), time.Minute))
	}

	require.NoError(t, cache.DeletePrefix(ctx, "s1:accounts"))

	for key, want := range map[string]bool{
		"s1:accounts":        false,
		"s1:accounts:3:0:20": false,
		"s1:accounts-extra":  true,
		"s1:loans":           true,
		"s2:accounts":        true,
	} {
		_, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, ok, key)
	}
}

func TestCache_Integration_ClientRoundTrip(t *testing.T) {
	cache := setupRedis(t)
	ctx := context.Background()
	c := query.NewClient(cache, "sess-1", time.Minute, nil)

	loads := 0
	load := func(ctx context.Context) ([]string, error) {
		loads++
		return []string{"checking", "savings"}, nil
	}

	v, err := query.Fetch(ctx, c, query.KeyAccounts, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"checking", "savings"}, v)

	_, err = query.Fetch(ctx, c, query.KeyAccounts, load)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)

	require.NoError(t, c.Close(ctx))
	_, ok, err := cache.Get(ctx, "sess-1:accounts")
	require.NoError(t, err)
	assert.False(t, ok)
}
