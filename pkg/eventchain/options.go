package eventchain

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/eventchain/pkg/eventchain/observability"
)

// TransformFailureObserver is notified when a successor's transformer
// returns a non-SUCCESS status. payload is whatever the transformer returned.
type TransformFailureObserver func(ctx context.Context, source, eventName string, payload any)

// chainerConfig holds configuration shared by Chainers.
type chainerConfig struct {
	source             string
	clock              Clock
	logger             *slog.Logger
	metrics            observability.MetricsRecorder
	spans              observability.SpanManager
	onTransformFailure TransformFailureObserver
}

func defaultChainerConfig() chainerConfig {
	return chainerConfig{
		clock:   RealClock{},
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Chainer or Graph.
type Option func(*chainerConfig)

// WithSource names the event whose router the Chainer consults.
// The name appears in ConfigError, logs and telemetry.
func WithSource(name string) Option {
	return func(c *chainerConfig) {
		c.source = name
	}
}

// WithClock sets the clock used to compute ScheduledAt.
// Default: RealClock.
func WithClock(clock Clock) Option {
	return func(c *chainerConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger enables debug logging of every resolved step.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *chainerConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
//
// Example:
//
//	chainer := eventchain.NewChainer(router, dir,
//	    eventchain.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *chainerConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the tracing span manager.
// Default: observability.NoopSpanManager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *chainerConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithTransformFailureObserver installs a hook called whenever a transform
// failure silently ends a chain. Without it, such failures are not reported.
func WithTransformFailureObserver(fn TransformFailureObserver) Option {
	return func(c *chainerConfig) {
		c.onTransformFailure = fn
	}
}
