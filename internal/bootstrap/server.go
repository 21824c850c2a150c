package bootstrap

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/metrics"
	"github.com/go-authgate/payapproval/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, cfg *config.Config, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, cfg *config.Config, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		done := make(chan error, 1)
		go func() { done <- redisClient.Close() }()

		select {
		case err := <-done:
			if err != nil {
				log.Printf("Error closing Redis client: %v", err)
				return err
			}
			log.Println("Redis connection closed")
			return nil
		case <-time.After(cfg.RedisCloseTimeout):
			log.Printf("Redis close timed out after %s", cfg.RedisCloseTimeout)
			return context.DeadlineExceeded
		}
	})
}

// addCacheShutdownJob closes a cache on shutdown; nil caches are skipped.
func addCacheShutdownJob[T any](m *graceful.Manager, name string, c core.Cache[T]) {
	if c == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := c.Close(); err != nil {
			log.Printf("Error closing %s cache: %v", name, err)
			return err
		}
		log.Printf("%s cache closed", name)
		return nil
	})
}

// addDatabaseShutdownJob closes the connection pool after the server has drained
func addDatabaseShutdownJob(m *graceful.Manager, cfg *config.Config, db *store.Store) {
	m.AddShutdownJob(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBCloseTimeout)
		defer cancel()

		if err := db.Close(ctx); err != nil {
			log.Printf("Error closing database: %v", err)
			return err
		}
		log.Println("Database connection closed")
		return nil
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	recorder core.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		cacheWrapper := metrics.NewCacheWrapper(db, metricsCache)

		// Update immediately on startup
		cacheWrapper.UpdateGauges(ctx, recorder, cfg.MetricsGaugeUpdateInterval)

		for {
			select {
			case <-ticker.C:
				cacheWrapper.UpdateGauges(ctx, recorder, cfg.MetricsGaugeUpdateInterval)
			case <-ctx.Done():
				return nil
			}
		}
	})
}
