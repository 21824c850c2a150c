package metrics

import (
	"sync"

	"github.com/go-authgate/payapproval/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Xero integration
	XeroTokenRefreshTotal    *prometheus.CounterVec
	XeroTokenRefreshDuration prometheus.Histogram
	XeroAPICallsTotal        *prometheus.CounterVec
	XeroAPICallDuration      *prometheus.HistogramVec
	XeroCallbacksTotal       *prometheus.CounterVec
	XeroConnected            prometheus.Gauge

	// Local accounts
	AuthLoginTotal        *prometheus.CounterVec
	AuthRegistrationTotal *prometheus.CounterVec
	UsersTotal            prometheus.Gauge

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the Prometheus recorder when enabled and a NoopMetrics
// otherwise. Collectors are registered once per process.
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}
	return GetMetrics()
}

// GetMetrics returns the process-wide Prometheus recorder.
func GetMetrics() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	latency := []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10}

	return &Metrics{
		XeroTokenRefreshTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xero_token_refresh_total",
				Help: "Total number of Xero access token refreshes",
			},
			[]string{"result"}, // success, error
		),
		XeroTokenRefreshDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "xero_token_refresh_duration_seconds",
				Help:    "Time taken to refresh the Xero access token",
				Buckets: latency,
			},
		),
		XeroAPICallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xero_api_calls_total",
				Help: "Total number of Xero accounting API calls",
			},
			[]string{"resource", "result"},
		),
		XeroAPICallDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xero_api_call_duration_seconds",
				Help:    "Xero accounting API latency",
				Buckets: latency,
			},
			[]string{"resource"}, // invoices, contacts, accounts, tax_rates
		),
		XeroCallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xero_oauth_callbacks_total",
				Help: "Total number of completed Xero consent callbacks",
			},
			[]string{"result"},
		),
		XeroConnected: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "xero_connected",
				Help: "1 when an active Xero credential exists",
			},
		),

		AuthLoginTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, failure
		),
		AuthRegistrationTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_registration_total",
				Help: "Total number of registration attempts",
			},
			[]string{"result"},
		),
		UsersTotal: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "users_total",
				Help: "Current number of registered users",
			},
		),

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.005,
					0.025,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
					10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"}, // count_users, save_xero_token, update_xero_token, ...
		),
	}
}
