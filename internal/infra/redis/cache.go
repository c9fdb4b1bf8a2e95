package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/finboard/pkg/logger"
)

const (
	// KeyPrefix is the prefix for query cache keys
	KeyPrefix = "finboard:q:"

	deleteBatch = 100
)

// Cache is a Redis-backed query.Store shared by every BFF instance
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewCache creates a new query cache store
func NewCache(client *redis.Client, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Discard()
	}
	return &Cache{
		client: client,
		logger: log.WithField("component", "cache"),
	}
}

// NewClient connects to Redis from a redis:// URL; password overrides the URL's one when set
func NewClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Get retrieves a cached view
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to get cached view: %w", err)
	}
	return val, true, nil
}

// Set stores a view; a zero ttl never expires
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, KeyPrefix+key, value, ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "key", key, "error", err)
		return fmt.Errorf("failed to set cached view: %w", err)
	}
	return nil
}

// DeletePrefix removes prefix itself and every key below prefix + ":"
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	full := KeyPrefix + prefix
	if err := c.client.Del(ctx, full).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", prefix, err)
	}

	pattern := escapePattern(full+":") + "*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	pipe := c.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= deleteBatch {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to delete %s: %w", prefix, err)
			}
			pipe = c.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete %s: %w", prefix, err)
		}
	}

	return iter.Err()
}

// Ping reports whether Redis is reachable
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// escapePattern quotes glob metacharacters so session ids and keys match literally
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
