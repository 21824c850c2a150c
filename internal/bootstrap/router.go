package bootstrap

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/handlers"
	"github.com/go-authgate/payapproval/internal/metrics"
	"github.com/go-authgate/payapproval/internal/middleware"
	"github.com/go-authgate/payapproval/internal/response"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/store"
	"github.com/go-authgate/payapproval/internal/token"
	"github.com/go-authgate/payapproval/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	recorder core.Recorder,
	tokenProvider *token.LocalTokenProvider,
	xeroService *services.XeroService,
	limiters rateLimitMiddlewares,
) *gin.Engine {
	log.Printf("Gin mode: %s", gin.Mode())
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(util.IPMiddleware())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(limiters.public)

	r.GET("/", func(c *gin.Context) {
		response.OK(c, http.StatusOK, nil, "Payment approval API is running")
	})
	r.GET("/health", createHealthCheckHandler(db))
	setupMetricsEndpoint(r, cfg)

	setupAPIRoutes(r, h, tokenProvider, xeroService, limiters)
	r.NoRoute(handlers.NotFound)

	logServerStartup(cfg)
	return r
}

// corsConfig allows the comma separated FRONTEND_URL origins with credentials.
func corsConfig(cfg *config.Config) cors.Config {
	var origins []string
	for _, o := range strings.Split(cfg.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimSuffix(o, "/"))
		}
	}

	if len(origins) == 0 {
		origins = []string{strings.TrimSuffix(cfg.BaseURL, "/")}
	}

	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AllowCredentials = true
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	c.ExposeHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	c.MaxAge = 12 * time.Hour
	return c
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAPIRoutes configures the JSON API consumed by the frontend
func setupAPIRoutes(
	r *gin.Engine,
	h handlerSet,
	tokenProvider *token.LocalTokenProvider,
	xeroService *services.XeroService,
	limiters rateLimitMiddlewares,
) {
	api := r.Group("/api", limiters.api)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", limiters.register, h.auth.Register)
		authGroup.POST("/login", limiters.login, h.auth.Login)
	}

	users := api.Group("/user", middleware.RequireAuth(tokenProvider))
	{
		users.GET("", h.user.ListUsers)
		users.GET("/:id", h.user.GetUser)
	}

	xeroGroup := api.Group("/xero", middleware.RequireAuth(tokenProvider))
	{
		xeroGroup.GET("/auth", middleware.RequireAdmin(), h.xero.Auth)
		xeroGroup.POST("/callback", h.xero.Callback)
		xeroGroup.GET("/connection", h.xero.Connection)

		withToken := xeroGroup.Group("", middleware.RequireXeroToken(xeroService))
		withToken.GET("/invoices", h.xero.Invoices)
		withToken.GET("/contacts", h.xero.Contacts)
		withToken.GET("/accounts", h.xero.Accounts)
		withToken.GET("/tax-rates", h.xero.TaxRates)
	}
}

// createHealthCheckHandler creates health check endpoint handler
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	}
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Payment approval API starting on %s", cfg.ServerAddr)
	log.Printf("Public URL: %s", cfg.BaseURL)
	log.Printf("Allowed frontend origins: %s", cfg.FrontendURL)
	log.Printf("Xero callback: %s", cfg.XeroRedirectURI)
}
