package cache

import (
	"context"
	"sync"
	"time"

	"github.com/go-authgate/payapproval/internal/core"

	"golang.org/x/sync/singleflight"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

// MemoryCache is a process-local cache with lazy expiry.
// Only suitable for single-instance deployments.
type MemoryCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	fetches singleflight.Group
}

func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{entries: make(map[string]entry[T])}
}

func (m *MemoryCache[T]) Get(_ context.Context, key string) (T, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		var zero T
		return zero, ErrCacheMiss
	}
	return e.value, nil
}

func (m *MemoryCache[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry[T]{value: value, expiresAt: time.Now().Add(ttl)}
	m.sweepLocked()
	return nil
}

// sweepLocked drops expired entries once the map has grown, so abandoned
// keys such as unused consent states do not accumulate.
func (m *MemoryCache[T]) sweepLocked() {
	if len(m.entries) < 1024 {
		return
	}
	now := time.Now()
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}

func (m *MemoryCache[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Close drops every entry.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry[T])
	return nil
}

func (m *MemoryCache[T]) Health(context.Context) error {
	return nil
}

// GetWithFetch returns the cached value for key, or loads it with fetchFunc.
// Concurrent misses for the same key share one fetch.
func (m *MemoryCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	if value, err := m.Get(ctx, key); err == nil {
		return value, nil
	}

	v, err, _ := m.fetches.Do(key, func() (any, error) {
		value, err := fetchFunc(ctx, key)
		if err != nil {
			return nil, err
		}
		_ = m.Set(ctx, key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
