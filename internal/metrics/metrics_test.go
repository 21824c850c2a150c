package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	m, ok := Init(true).(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, m.XeroTokenRefreshTotal)
	assert.NotNil(t, m.HTTPRequestsTotal)

	assert.Same(t, m, GetMetrics())
}

func TestInitNoop(t *testing.T) {
	_, ok := Init(false).(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")
}

func TestRecordXeroTokenRefresh(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry())

	m.RecordXeroTokenRefresh(true, 200*time.Millisecond)
	m.RecordXeroTokenRefresh(false, time.Second)
	m.RecordXeroTokenRefresh(false, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.XeroTokenRefreshTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.XeroTokenRefreshTotal.WithLabelValues("error")))
}

func TestRecordXeroAPICall(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry())

	m.RecordXeroAPICall("invoices", true, 300*time.Millisecond)
	m.RecordXeroAPICall("tax_rates", false, 3*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.XeroAPICallsTotal.WithLabelValues("invoices", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.XeroAPICallsTotal.WithLabelValues("tax_rates", "error")))
}

func TestXeroConnectedGauge(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry())

	m.RecordXeroCallback(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.XeroConnected))

	m.RecordXeroCallback(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.XeroConnected))

	m.SetXeroConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.XeroConnected))
}

func TestLoginAndRegistration(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry())

	m.SetUsersCount(3)
	m.RecordRegistration(true)
	m.RecordRegistration(false)
	m.RecordLogin(false)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.UsersTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthRegistrationTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthLoginTotal.WithLabelValues("failure")))
}

func TestRecordDatabaseQueryError(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry())

	m.RecordDatabaseQueryError("save_xero_token")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseQueryErrorsTotal.WithLabelValues("save_xero_token")))
}

func TestNoopMetrics(t *testing.T) {
	n := NewNoopMetrics()

	assert.NotPanics(t, func() {
		n.RecordXeroTokenRefresh(true, time.Second)
		n.RecordXeroAPICall("invoices", true, time.Second)
		n.RecordXeroCallback(true)
		n.RecordLogin(true)
		n.RecordRegistration(true)
		n.SetXeroConnected(true)
		n.SetUsersCount(1)
		n.RecordDatabaseQueryError("op")
	})
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/api/user/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/user/a", "/api/user/b", "/metrics", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/user/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unknown", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
