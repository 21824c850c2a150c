package metrics

import "time"

const (
	resultSuccess = "success"
	resultError   = "error"
	resultFailure = "failure"
)

func outcome(success bool, failed string) string {
	if success {
		return resultSuccess
	}
	return failed
}

// RecordXeroTokenRefresh records one refresh call against the Xero identity server
func (m *Metrics) RecordXeroTokenRefresh(success bool, duration time.Duration) {
	m.XeroTokenRefreshTotal.WithLabelValues(outcome(success, resultError)).Inc()
	m.XeroTokenRefreshDuration.Observe(duration.Seconds())
}

// RecordXeroAPICall records one accounting API call
func (m *Metrics) RecordXeroAPICall(resource string, success bool, duration time.Duration) {
	m.XeroAPICallsTotal.WithLabelValues(resource, outcome(success, resultError)).Inc()
	m.XeroAPICallDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

func (m *Metrics) RecordXeroCallback(success bool) {
	m.XeroCallbacksTotal.WithLabelValues(outcome(success, resultError)).Inc()
	if success {
		m.XeroConnected.Set(1)
	}
}

func (m *Metrics) RecordLogin(success bool) {
	m.AuthLoginTotal.WithLabelValues(outcome(success, resultFailure)).Inc()
}

func (m *Metrics) RecordRegistration(success bool) {
	m.AuthRegistrationTotal.WithLabelValues(outcome(success, resultFailure)).Inc()
	if success {
		m.UsersTotal.Inc()
	}
}

// SetXeroConnected sets the connection gauge (for periodic updates)
func (m *Metrics) SetXeroConnected(connected bool) {
	if connected {
		m.XeroConnected.Set(1)
		return
	}
	m.XeroConnected.Set(0)
}

// SetUsersCount sets the user gauge (for periodic updates)
func (m *Metrics) SetUsersCount(count int64) {
	m.UsersTotal.Set(float64(count))
}

func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
