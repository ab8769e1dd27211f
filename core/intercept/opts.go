package intercept

import "log/slog"

// Option configures an Interceptor.
type Option func(*options)

type options struct {
	log       *slog.Logger
	metrics   InterceptMetrics
	contracts []Contract
}

// WithLogger sets the logging sink for reports (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics mirrors every observation into m (default: no-op).
func WithMetrics(m InterceptMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithContract adds a capability contract beyond the primary one, for targets
// exposing more than one interface.
func WithContract(c Contract) Option {
	return func(o *options) {
		o.contracts = append(o.contracts, c)
	}
}
