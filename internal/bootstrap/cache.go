package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-authgate/payapproval/internal/cache"
	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/metrics"
	"github.com/go-authgate/payapproval/internal/models"
)

const keyPrefix = "payapproval:"

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("[Metrics] Prometheus metrics initialized")
	} else {
		log.Println("[Metrics] Disabled (using noop implementation)")
	}
	return recorder
}

// initializeMetricsCache returns nil when gauges are not updated.
func initializeMetricsCache(ctx context.Context, cfg *config.Config) (core.Cache[int64], error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil
	}
	return newCache[int64](ctx, cfg, "metrics", cfg.MetricsCacheType, cfg.UserCacheClientTTL)
}

// initializeUserCache initializes the user cache (always enabled, defaults to memory)
func initializeUserCache(ctx context.Context, cfg *config.Config) (core.Cache[models.User], error) {
	return newCache[models.User](ctx, cfg, "users", cfg.UserCacheType, cfg.UserCacheClientTTL)
}

// initializeStateCache holds pending Xero consent states. It must be shared
// between replicas when the callback can land on a different instance.
func initializeStateCache(ctx context.Context, cfg *config.Config) (core.Cache[string], error) {
	return newCache[string](ctx, cfg, "xero_state", cfg.StateCacheType, cfg.UserCacheClientTTL)
}

func newCache[T any](
	ctx context.Context,
	cfg *config.Config,
	name, cacheType string,
	clientTTL time.Duration,
) (core.Cache[T], error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	prefix := keyPrefix + name + ":"

	switch cacheType {
	case config.CacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[T](cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, prefix, clientTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis-aside %s cache: %w", name, err)
		}
		if err := c.Health(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize redis-aside %s cache: %w", name, err)
		}
		log.Printf("[Cache] %s: redis-aside (addr=%s, db=%d, client_ttl=%s)", name, cfg.RedisAddr, cfg.RedisDB, clientTTL)
		return c, nil

	case config.CacheTypeRedis:
		c, err := cache.NewRueidisCache[T](ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis %s cache: %w", name, err)
		}
		log.Printf("[Cache] %s: redis (addr=%s, db=%d)", name, cfg.RedisAddr, cfg.RedisDB)
		return c, nil

	default:
		log.Printf("[Cache] %s: memory (single instance only)", name)
		return cache.NewMemoryCache[T](), nil
	}
}
