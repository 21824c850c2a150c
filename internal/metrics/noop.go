package metrics

import (
	"time"

	"github.com/go-authgate/payapproval/internal/core"
)

// NoopMetrics discards everything; used when METRICS_ENABLED is false
type NoopMetrics struct{}

var _ core.Recorder = (*NoopMetrics)(nil)

func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordXeroTokenRefresh(success bool, duration time.Duration)             {}
func (n *NoopMetrics) RecordXeroAPICall(resource string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordXeroCallback(success bool)                                         {}
func (n *NoopMetrics) RecordLogin(success bool)                                                {}
func (n *NoopMetrics) RecordRegistration(success bool)                                         {}
func (n *NoopMetrics) SetXeroConnected(connected bool)                                         {}
func (n *NoopMetrics) SetUsersCount(count int64)                                               {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                               {}
