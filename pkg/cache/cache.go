// Package cache defines the response cache consulted by the LPDB client.
package cache

import (
	"context"
	"time"
)

// Cache stores successful response bodies. A miss is reported as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	Close() error
}

// Key derives the cache key of one request. The API key is never part of it.
func Key(resource, queryString string) string {
	return resource + queryString
}
