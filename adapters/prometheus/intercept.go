package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chief111elf/proxymetrics/core/intercept"
	"github.com/chief111elf/proxymetrics/core/metrics"
)

// interceptMetrics implements intercept.InterceptMetrics using Prometheus.
type interceptMetrics struct {
	callDuration *prometheus.HistogramVec
	callsTotal   *prometheus.CounterVec
}

// NewInterceptMetrics creates a new Prometheus implementation of
// InterceptMetrics and registers its collectors with reg.
func NewInterceptMetrics(reg prometheus.Registerer) intercept.InterceptMetrics {
	m := &interceptMetrics{
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proxymetrics_call_duration_seconds",
			Help:    "Wrapped call time in seconds",
			Buckets: defaultBuckets,
		}, []string{"method"}),

		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proxymetrics_calls_total",
			Help: "Total number of wrapped calls",
		}, []string{"method", "success"}),
	}

	reg.MustRegister(
		m.callDuration,
		m.callsTotal,
	)

	return m
}

func (m *interceptMetrics) CallDuration(method string) metrics.Timer {
	return newTimer(m.callDuration.WithLabelValues(method))
}

func (m *interceptMetrics) CallProcessed(method string, success bool) {
	m.callsTotal.WithLabelValues(method, boolToStr(success)).Inc()
}

var _ intercept.InterceptMetrics = (*interceptMetrics)(nil)
