package bootstrap

import (
	"fmt"
	"log"
	"time"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitMiddlewares holds rate limiting middlewares for different route groups
type rateLimitMiddlewares struct {
	public   gin.HandlerFunc
	api      gin.HandlerFunc
	login    gin.HandlerFunc
	register gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration.
// redisClient is nil unless the Redis store is selected.
func setupRateLimiting(cfg *config.Config, redisClient *redis.Client) (rateLimitMiddlewares, error) {
	if !cfg.EnableRateLimit {
		log.Println("[RateLimit] Disabled")
		return rateLimitMiddlewares{
			public:   middleware.NoopRateLimiter,
			api:      middleware.NoopRateLimiter,
			login:    middleware.NoopRateLimiter,
			register: middleware.NoopRateLimiter,
		}, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	log.Printf("[RateLimit] Enabled (store: %s)", storeType)

	create := func(
		prefix string,
		limit int,
		period time.Duration,
		message string,
		skipSuccessful bool,
	) (gin.HandlerFunc, error) {
		h, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			Limit:           int64(limit),
			Period:          period,
			Prefix:          prefix,
			Message:         message,
			SkipSuccessful:  skipSuccessful,
			StoreType:       storeType,
			RedisClient:     redisClient,
			CleanupInterval: cfg.RateLimitCleanupInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s rate limiter: %w", prefix, err)
		}
		return h, nil
	}

	var (
		m   rateLimitMiddlewares
		err error
	)
	if m.public, err = create("public", cfg.PublicRateLimit, cfg.PublicRateLimitPeriod,
		"Too many requests. Please wait a moment and try again", false); err != nil {
		return m, err
	}
	if m.api, err = create("api", cfg.APIRateLimit, cfg.APIRateLimitPeriod,
		"You've made too many requests. Please wait a few minutes and try again.", false); err != nil {
		return m, err
	}
	if m.login, err = create("login", cfg.LoginRateLimit, cfg.LoginRateLimitPeriod,
		fmt.Sprintf("Too many login attempts, please try again after %s.", cfg.LoginRateLimitPeriod), true); err != nil {
		return m, err
	}
	if m.register, err = create("register", cfg.RegisterRateLimit, cfg.RegisterRateLimitPeriod,
		fmt.Sprintf("Too many registration attempts, please try again after %s.", cfg.RegisterRateLimitPeriod), true); err != nil {
		return m, err
	}
	return m, nil
}
