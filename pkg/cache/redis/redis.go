// Package redis provides a Redis-backed implementation of cache.Cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/r9s-ai/lpdb-go/pkg/cache"
)

// DefaultKeyPrefix is applied when Config.KeyPrefix is empty.
const DefaultKeyPrefix = "lpdb:cache:"

// Config contains configuration options for the Redis cache.
type Config struct {
	// Client is the Redis client instance.
	Client *redis.Client

	// KeyPrefix is prepended to every key.
	// Default: "lpdb:cache:"
	KeyPrefix string
}

// Cache stores response bodies as plain Redis strings with native expiry.
type Cache struct {
	client    *redis.Client
	keyPrefix string
}

// New creates a Redis-backed cache.
func New(cfg Config) (*Cache, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &Cache{client: cfg.Client, keyPrefix: cfg.KeyPrefix}, nil
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, keyPrefix string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return New(Config{Client: client, KeyPrefix: keyPrefix})
}

// Get returns the cached body for key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get key %s: %w", c.keyPrefix+key, err)
	}
	return b, true, nil
}

// Set stores body under key. A non-positive ttl stores it without expiry.
func (c *Cache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, body, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", c.keyPrefix+key, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

var _ cache.Cache = (*Cache)(nil)
