package intercept

import "github.com/chief111elf/proxymetrics/core/metrics"

// InterceptMetrics is an optional mirror for observations: every timed call
// is additionally reported here, so aggregates can feed an external backend
// (Prometheus, StatsD, ...) without coupling this package to one.
// All methods are thread-safe.
type InterceptMetrics interface {
	// CallDuration starts a timer for one call to method.
	CallDuration(method string) metrics.Timer
	// CallProcessed records call completion and whether it succeeded.
	CallProcessed(method string, success bool)
}

// nopInterceptMetrics is a no-op implementation of InterceptMetrics.
type nopInterceptMetrics struct{}

func (nopInterceptMetrics) CallDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopInterceptMetrics) CallProcessed(string, bool)        {}

// NopInterceptMetrics returns a no-op InterceptMetrics implementation.
func NopInterceptMetrics() InterceptMetrics { return nopInterceptMetrics{} }
