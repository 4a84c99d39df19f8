// Package cache defines the byte cache port used by the cached datastore.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL'd byte cache.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
