package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/store"
	"github.com/go-authgate/payapproval/internal/token"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      core.Recorder
	MetricsCache         core.Cache[int64]
	UserCache            core.Cache[models.User]
	StateCache           core.Cache[string]
	RateLimitRedisClient *redis.Client

	// Services
	TokenProvider *token.LocalTokenProvider
	UserService   *services.UserService
	XeroService   *services.XeroService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown(ctx)

	return nil
}

// initializeInfrastructure sets up database, metrics, caches and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	app.UserCache, err = initializeUserCache(ctx, app.Config)
	if err != nil {
		return err
	}
	app.StateCache, err = initializeStateCache(ctx, app.Config)
	if err != nil {
		return err
	}

	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() error {
	var err error
	app.TokenProvider, app.UserService, app.XeroService, err = initializeServices(
		app.Config,
		app.DB,
		app.UserCache,
		app.StateCache,
		app.MetricsRecorder,
	)
	return err
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(app.UserService, app.XeroService)

	limiters, err := setupRateLimiting(app.Config, app.RateLimitRedisClient)
	if err != nil {
		return err
	}

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.TokenProvider,
		app.XeroService,
		limiters,
	)
	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown(ctx context.Context) {
	m := graceful.NewManager(graceful.WithContext(ctx))

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addRedisClientShutdownJob(m, app.Config, app.RateLimitRedisClient)
	addCacheShutdownJob(m, "metrics", app.MetricsCache)
	addCacheShutdownJob(m, "user", app.UserCache)
	addCacheShutdownJob(m, "state", app.StateCache)
	addDatabaseShutdownJob(m, app.Config, app.DB)

	<-m.Done()
}

// closeInfrastructure releases whatever was opened before a failed startup.
func (app *Application) closeInfrastructure() {
	for _, c := range []interface{ Close() error }{app.MetricsCache, app.UserCache, app.StateCache} {
		if c != nil {
			_ = c.Close()
		}
	}
	if app.RateLimitRedisClient != nil {
		_ = app.RateLimitRedisClient.Close()
	}
	if app.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.Config.DBCloseTimeout)
		defer cancel()
		_ = app.DB.Close(ctx)
	}
}
