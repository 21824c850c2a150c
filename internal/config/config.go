package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMySQL    = "mysql"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Cache backend constants, shared by the user cache and the Xero state cache
const (
	CacheTypeMemory     = "memory"
	CacheTypeRedis      = "redis"
	CacheTypeRedisAside = "redis-aside"
)

// Xero endpoints
const (
	DefaultXeroAuthURL        = "https://login.xero.com/identity/connect/authorize"
	DefaultXeroTokenURL       = "https://identity.xero.com/connect/token"
	DefaultXeroAPIBaseURL     = "https://api.xero.com/api.xro/2.0"
	DefaultXeroConnectionsURL = "https://api.xero.com/connections"
)

var defaultXeroScopes = []string{
	"openid",
	"profile",
	"email",
	"offline_access",
	"accounting.transactions.read",
	"accounting.contacts.read",
	"accounting.settings.read",
}

type Config struct {
	// Server settings
	ServerAddr  string
	BaseURL     string
	FrontendURL string

	// JWT settings
	JWTSecret     string
	JWTExpiration time.Duration
	JWTAudience   string
	JWTIssuer     string

	// Database
	DatabaseDriver      string // "sqlite", "postgres" or "mysql"
	DatabaseDSN         string
	DBMaxOpenConns      int
	DBMaxIdleConns      int
	DBConnMaxLifetime   time.Duration
	DBConnMaxIdleTime   time.Duration
	DBConnectAttempts   int
	DBConnectRetryDelay time.Duration

	// Xero integration
	XeroClientID       string
	XeroClientSecret   string
	XeroRedirectURI    string
	XeroScopes         []string
	XeroTenantID       string        // pin a tenant; first connection is used when empty
	XeroTimeout        time.Duration // per outbound call
	XeroRefreshTimeout time.Duration // refresh + persist, detached from the request
	XeroStateTTL       time.Duration
	XeroAuthURL        string
	XeroTokenURL       string
	XeroAPIBaseURL     string
	XeroConnectionsURL string

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string
	RateLimitCleanupInterval time.Duration
	PublicRateLimit          int
	PublicRateLimitPeriod    time.Duration
	APIRateLimit             int
	APIRateLimitPeriod       time.Duration
	LoginRateLimit           int
	LoginRateLimitPeriod     time.Duration
	RegisterRateLimit        int
	RegisterRateLimitPeriod  time.Duration

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// User cache
	UserCacheType      string
	UserCacheTTL       time.Duration
	UserCacheClientTTL time.Duration // redis-aside client-side TTL

	// Xero OAuth state cache
	StateCacheType string

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string

	// Timeouts
	DBInitTimeout         time.Duration
	DBCloseTimeout        time.Duration
	RedisConnTimeout      time.Duration
	RedisCloseTimeout     time.Duration
	CacheInitTimeout      time.Duration
	CacheCloseTimeout     time.Duration
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "payapproval.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:5173")

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		FrontendURL: frontendURL,

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", time.Hour),
		JWTAudience:   getEnv("JWT_AUDIENCE", "api"),
		JWTIssuer:     getEnv("JWT_ISSUER", "auth"),

		DatabaseDriver:      driver,
		DatabaseDSN:         dsn,
		DBMaxOpenConns:      getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:      getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime:   getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		DBConnMaxIdleTime:   getEnvDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		DBConnectAttempts:   getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		DBConnectRetryDelay: getEnvDuration("DB_CONNECT_RETRY_DELAY", 5*time.Second),

		XeroClientID:       getEnv("XERO_CLIENT_ID", ""),
		XeroClientSecret:   getEnv("XERO_CLIENT_SECRET", ""),
		XeroRedirectURI:    getEnv("XERO_REDIRECT_URI", strings.TrimRight(frontendURL, "/")+"/xero/callback"),
		XeroScopes:         getEnvFields("XERO_SCOPES", defaultXeroScopes),
		XeroTenantID:       getEnv("XERO_TENANT_ID", ""),
		XeroTimeout:        getEnvDuration("XERO_TIMEOUT", 3*time.Second),
		XeroRefreshTimeout: getEnvDuration("XERO_REFRESH_TIMEOUT", 10*time.Second),
		XeroStateTTL:       getEnvDuration("XERO_STATE_TTL", 10*time.Minute),
		XeroAuthURL:        getEnv("XERO_AUTH_URL", DefaultXeroAuthURL),
		XeroTokenURL:       getEnv("XERO_TOKEN_URL", DefaultXeroTokenURL),
		XeroAPIBaseURL:     getEnv("XERO_API_BASE_URL", DefaultXeroAPIBaseURL),
		XeroConnectionsURL: getEnv("XERO_CONNECTIONS_URL", DefaultXeroConnectionsURL),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		PublicRateLimit:          getEnvInt("PUBLIC_RATE_LIMIT", 30),
		PublicRateLimitPeriod:    getEnvDuration("PUBLIC_RATE_LIMIT_PERIOD", time.Minute),
		APIRateLimit:             getEnvInt("API_RATE_LIMIT", 100),
		APIRateLimitPeriod:       getEnvDuration("API_RATE_LIMIT_PERIOD", 15*time.Minute),
		LoginRateLimit:           getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateLimitPeriod:     getEnvDuration("LOGIN_RATE_LIMIT_PERIOD", 10*time.Minute),
		RegisterRateLimit:        getEnvInt("REGISTER_RATE_LIMIT", 5),
		RegisterRateLimitPeriod:  getEnvDuration("REGISTER_RATE_LIMIT_PERIOD", 15*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		UserCacheType:      getEnv("USER_CACHE_TYPE", CacheTypeMemory),
		UserCacheTTL:       getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		UserCacheClientTTL: getEnvDuration("USER_CACHE_CLIENT_TTL", 30*time.Second),

		StateCacheType: getEnv("STATE_CACHE_TYPE", CacheTypeMemory),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", CacheTypeMemory),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DBCloseTimeout:        getEnvDuration("DB_CLOSE_TIMEOUT", 5*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout:     getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		CacheCloseTimeout:     getEnvDuration("CACHE_CLOSE_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Validate checks enum values and cross-field requirements.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres, DatabaseDriverMySQL:
	default:
		return fmt.Errorf(
			"invalid DATABASE_DRIVER value: %q (must be %q, %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres, DatabaseDriverMySQL,
		)
	}
	if c.DatabaseDriver != DatabaseDriverSQLite && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DRIVER=%q requires DATABASE_DSN", c.DatabaseDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be a positive duration")
	}

	if c.XeroClientID == "" || c.XeroClientSecret == "" {
		return errors.New("XERO_CLIENT_ID and XERO_CLIENT_SECRET are required")
	}
	if c.XeroTimeout <= 0 {
		return errors.New("XERO_TIMEOUT must be a positive duration")
	}
	if c.XeroRefreshTimeout <= 0 {
		return errors.New("XERO_REFRESH_TIMEOUT must be a positive duration")
	}

	switch c.RateLimitStore {
	case RateLimitStoreMemory:
	case RateLimitStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("RATE_LIMIT_STORE=%q requires REDIS_ADDR", c.RateLimitStore)
		}
	default:
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis,
		)
	}

	if err := c.validateCacheType("USER_CACHE_TYPE", c.UserCacheType); err != nil {
		return err
	}
	if c.UserCacheTTL <= 0 {
		return errors.New("USER_CACHE_TTL must be a positive duration")
	}
	if c.UserCacheType == CacheTypeRedisAside && c.UserCacheClientTTL <= 0 {
		return errors.New("USER_CACHE_CLIENT_TTL must be a positive duration")
	}

	if err := c.validateCacheType("STATE_CACHE_TYPE", c.StateCacheType); err != nil {
		return err
	}

	if c.MetricsEnabled && c.MetricsGaugeUpdateEnabled {
		if err := c.validateCacheType("METRICS_CACHE_TYPE", c.MetricsCacheType); err != nil {
			return err
		}
		if c.MetricsGaugeUpdateInterval <= 0 {
			return errors.New("METRICS_GAUGE_UPDATE_INTERVAL must be a positive duration")
		}
	}

	return nil
}

func (c *Config) validateCacheType(key, value string) error {
	switch value {
	case CacheTypeMemory:
		return nil
	case CacheTypeRedis, CacheTypeRedisAside:
		if c.RedisAddr == "" {
			return fmt.Errorf("%s=%q requires REDIS_ADDR", key, value)
		}
		return nil
	default:
		return fmt.Errorf(
			"invalid %s value: %q (must be %q, %q or %q)",
			key, value, CacheTypeMemory, CacheTypeRedis, CacheTypeRedisAside,
		)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvFields splits on whitespace and commas, so both "a b" and "a,b" work.
func getEnvFields(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
