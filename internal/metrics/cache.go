package metrics

import (
	"context"
	"log"
	"time"

	"github.com/go-authgate/payapproval/internal/core"
)

const (
	usersCountKey      = "users:total"
	xeroConnectionsKey = "xero:active"
)

// CacheWrapper puts a read-through cache in front of the gauge queries so
// that several replicas updating gauges do not each hit the database.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

func NewCacheWrapper(s core.MetricsStore, c core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{store: s, cache: c}
}

func (w *CacheWrapper) GetUsersCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return w.cache.GetWithFetch(ctx, usersCountKey, ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return w.store.CountUsers(ctx)
		},
	)
}

func (w *CacheWrapper) GetActiveXeroTokensCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return w.cache.GetWithFetch(ctx, xeroConnectionsKey, ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return w.store.CountActiveXeroTokens(ctx)
		},
	)
}

// UpdateGauges refreshes the periodic gauges on r. Failed queries are counted
// and logged; the previous gauge value is kept.
func (w *CacheWrapper) UpdateGauges(ctx context.Context, r core.Recorder, ttl time.Duration) {
	if n, err := w.GetUsersCount(ctx, ttl); err != nil {
		r.RecordDatabaseQueryError("count_users")
		log.Printf("[Metrics] Failed to count users: %v", err)
	} else {
		r.SetUsersCount(n)
	}

	if n, err := w.GetActiveXeroTokensCount(ctx, ttl); err != nil {
		r.RecordDatabaseQueryError("count_active_xero_tokens")
		log.Printf("[Metrics] Failed to count active xero tokens: %v", err)
	} else {
		r.SetXeroConnected(n > 0)
	}
}
