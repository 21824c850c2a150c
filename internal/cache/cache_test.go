package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userSnapshot struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache[userSnapshot]()
	ctx := context.Background()

	want := userSnapshot{ID: "u-1", Email: "admin@example.com"}
	require.NoError(t, c.Set(ctx, "user:u-1", want, time.Minute))

	got, err := c.Get(ctx, "user:u-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryCache_GetMiss(t *testing.T) {
	c := NewMemoryCache[string]()

	_, err := c.Get(context.Background(), "xero_state:missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache[string]()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "xero_state:abc", "u-1", 50*time.Millisecond))

	owner, err := c.Get(ctx, "xero_state:abc")
	require.NoError(t, err)
	assert.Equal(t, "u-1", owner)

	time.Sleep(100 * time.Millisecond)

	_, err = c.Get(ctx, "xero_state:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache[string]()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// deleting an absent key is not an error
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestMemoryCache_CloseClears(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()

	_ = c.Set(ctx, "a", 1, time.Minute)
	_ = c.Set(ctx, "b", 2, time.Minute)
	require.NoError(t, c.Close())

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Health(ctx))
}

func TestMemoryCache_SweepsExpiredEntries(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()

	for i := range 1100 {
		_ = c.Set(ctx, fmt.Sprintf("stale:%d", i), int64(i), time.Nanosecond)
	}
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "fresh", 1, time.Minute)

	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	assert.Equal(t, 1, n)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			for j := range 100 {
				_ = c.Set(ctx, "shared", int64(i*1000+j), time.Minute)
			}
		})
		wg.Go(func() {
			for range 100 {
				_, _ = c.Get(ctx, "shared")
			}
		})
	}
	wg.Wait()

	_, err := c.Get(ctx, "shared")
	assert.NoError(t, err)
}

func TestMemoryCache_GetWithFetch(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()

	fetches := 0
	fetch := func(context.Context, string) (int64, error) {
		fetches++
		return 42, nil
	}

	v, err := c.GetWithFetch(ctx, "users:total", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = c.GetWithFetch(ctx, "users:total", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
	assert.Equal(t, 1, fetches)
}

func TestMemoryCache_GetWithFetch_FetchError(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()
	boom := errors.New("fetch failed")

	_, err := c.GetWithFetch(ctx, "k", time.Minute, func(context.Context, string) (int64, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	// a failed fetch is not cached
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_GetWithFetch_ConcurrentMissesShareFetch(t *testing.T) {
	c := NewMemoryCache[int64]()
	ctx := context.Background()

	var fetches atomic.Int64
	release := make(chan struct{})
	fetch := func(context.Context, string) (int64, error) {
		fetches.Add(1)
		<-release
		return 99, nil
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			v, err := c.GetWithFetch(ctx, "shared", time.Minute, fetch)
			assert.NoError(t, err)
			assert.Equal(t, int64(99), v)
		})
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), fetches.Load())
}

func TestEncodeDecode(t *testing.T) {
	s, err := encode(userSnapshot{ID: "u-1", Email: "a@b.c"})
	require.NoError(t, err)

	got, err := decode[userSnapshot](s)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	_, err = decode[userSnapshot]("not json")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
