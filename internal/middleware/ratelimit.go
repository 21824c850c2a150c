package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-authgate/payapproval/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterRedis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitStoreType defines the type of rate limit store
type RateLimitStoreType string

const (
	// RateLimitStoreMemory uses in-memory storage (single instance only)
	RateLimitStoreMemory RateLimitStoreType = "memory"
	// RateLimitStoreRedis uses Redis storage (distributed, multi-pod support)
	RateLimitStoreRedis RateLimitStoreType = "redis"
)

// RateLimitConfig configures one limiter. Keys are "<Prefix>:<client ip>".
type RateLimitConfig struct {
	Limit   int64
	Period  time.Duration
	Prefix  string
	Message string

	// SkipSuccessful counts only responses with status >= 400, so a
	// successful login does not use up the caller's attempts.
	SkipSuccessful bool

	StoreType       RateLimitStoreType
	RedisClient     *redis.Client // required when StoreType is redis
	CleanupInterval time.Duration // memory store only
}

// NewRateLimiter creates a rate limiting middleware backed by memory or Redis.
func NewRateLimiter(cfg RateLimitConfig) (gin.HandlerFunc, error) {
	if cfg.Limit <= 0 || cfg.Period <= 0 {
		return nil, fmt.Errorf("invalid rate %d per %s", cfg.Limit, cfg.Period)
	}
	if cfg.Message == "" {
		cfg.Message = "Too many requests. Please try again later."
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	store, err := newLimiterStore(cfg)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(store, limiter.Rate{Period: cfg.Period, Limit: cfg.Limit})
	keyGetter := func(c *gin.Context) string {
		return cfg.Prefix + ":" + c.ClientIP()
	}
	reached := func(c *gin.Context) {
		log.Printf("[RateLimit] %s limit reached for %s %s", cfg.Prefix, c.ClientIP(), c.FullPath())
		response.Fail(c, http.StatusTooManyRequests, cfg.Message, response.CodeRateLimited)
	}

	if !cfg.SkipSuccessful {
		return mgin.NewMiddleware(instance,
			mgin.WithKeyGetter(keyGetter),
			mgin.WithLimitReachedHandler(reached),
		), nil
	}

	return func(c *gin.Context) {
		key := keyGetter(c)
		ctx := c.Request.Context()

		lctx, err := instance.Peek(ctx, key)
		if err != nil {
			log.Printf("[RateLimit] %s store error: %v", cfg.Prefix, err)
			c.Next()
			return
		}
		setRateLimitHeaders(c, lctx)
		// Peek does not count this request, so a spent budget shows as zero remaining
		if lctx.Reached || lctx.Remaining <= 0 {
			reached(c)
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if _, err := instance.Increment(ctx, key, 1); err != nil {
				log.Printf("[RateLimit] %s store error: %v", cfg.Prefix, err)
			}
		}
	}, nil
}

func newLimiterStore(cfg RateLimitConfig) (limiter.Store, error) {
	switch cfg.StoreType {
	case RateLimitStoreRedis:
		if cfg.RedisClient == nil {
			return nil, fmt.Errorf("redis rate limit store requires a redis client")
		}
		store, err := limiterRedis.NewStoreWithOptions(cfg.RedisClient, limiter.StoreOptions{
			Prefix:          "ratelimit",
			CleanUpInterval: cfg.CleanupInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		return store, nil
	default:
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          "ratelimit",
			CleanUpInterval: cfg.CleanupInterval,
		}), nil
	}
}

// setRateLimitHeaders mirrors the headers the gin driver sets.
func setRateLimitHeaders(c *gin.Context, lctx limiter.Context) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
}

// NoopRateLimiter is used when rate limiting is disabled.
func NoopRateLimiter(c *gin.Context) { c.Next() }
