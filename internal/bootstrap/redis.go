package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/redis/go-redis/v9"
)

// initializeRateLimitRedisClient initializes the go-redis client for rate limiting.
// Returns nil if rate limiting is disabled or using memory store.
// ulule/limiter's Redis store is built on go-redis, so this client is separate
// from the rueidis clients the caches use.
func initializeRateLimitRedisClient(
	ctx context.Context,
	cfg *config.Config,
) (*redis.Client, error) {
	if !cfg.EnableRateLimit || cfg.RateLimitStore != config.RateLimitStoreRedis {
		return nil, nil //nolint:nilnil // redis client not needed in this configuration
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		ClientName:  "payapproval-ratelimit",
		DialTimeout: cfg.RedisConnTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Printf("[Redis] Rate limit client connected (address: %s, db: %d)", cfg.RedisAddr, cfg.RedisDB)
	return client, nil
}
