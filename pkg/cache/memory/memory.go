// Package memory provides an in-process LRU implementation of cache.Cache.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/r9s-ai/lpdb-go/pkg/cache"
)

// DefaultMaxItems bounds the cache when New is given a non-positive size.
const DefaultMaxItems = 1024

type item struct {
	body      []byte
	expiresAt time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// Cache is an LRU cache with per-entry expiry. Expired entries are dropped on read.
type Cache struct {
	mu    sync.Mutex
	items *lru.Cache[string, item]
	now   func() time.Time
}

// New creates a cache holding at most maxItems entries.
func New(maxItems int) (*Cache, error) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	items, err := lru.New[string, item](maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &Cache{items: items, now: time.Now}, nil
}

// Get returns a copy of the cached body for key.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if it.expired(c.now()) {
		c.items.Remove(key)
		return nil, false, nil
	}
	return append([]byte(nil), it.body...), true, nil
}

// Set stores body under key. A non-positive ttl keeps the entry until evicted.
func (c *Cache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	it := item{body: append([]byte(nil), body...)}
	if ttl > 0 {
		it.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items.Add(key, it)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

// Close drops every entry.
func (c *Cache) Close() error {
	c.mu.Lock()
	c.items.Purge()
	c.mu.Unlock()
	return nil
}

var _ cache.Cache = (*Cache)(nil)
