package core

import (
	"context"
	"time"
)

// Cache is a typed key-value cache. The user cache, the Xero consent state
// cache and the metrics gauge cache are all instances of it, backed by
// memory, Redis, or Redis with client-side caching.
type Cache[T any] interface {
	// Get returns cache.ErrCacheMiss for absent or expired keys.
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	// Delete of an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
	Health(ctx context.Context) error

	// GetWithFetch loads key through fetchFunc on a miss and stores the
	// result for ttl. Failed fetches are not cached.
	GetWithFetch(
		ctx context.Context,
		key string,
		ttl time.Duration,
		fetchFunc func(ctx context.Context, key string) (T, error),
	) (T, error)
}
