package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Xero integration
	RecordXeroTokenRefresh(success bool, duration time.Duration)
	RecordXeroAPICall(resource string, success bool, duration time.Duration)
	RecordXeroCallback(success bool)

	// Authentication
	RecordLogin(success bool)
	RecordRegistration(success bool)

	// Gauge Setters (for periodic updates)
	SetXeroConnected(connected bool)
	SetUsersCount(count int64)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by CacheWrapper.
type MetricsStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountActiveXeroTokens(ctx context.Context) (int64, error)
}
