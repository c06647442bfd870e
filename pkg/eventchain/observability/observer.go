package observability

import (
	"context"
	"log/slog"
)

// TransformFailureLogger returns a transform-failure observer that logs each
// failure at Warn level. Pass it to eventchain.WithTransformFailureObserver.
func TransformFailureLogger(logger *slog.Logger) func(ctx context.Context, source, eventName string, payload any) {
	return func(_ context.Context, source, eventName string, _ any) {
		LogTransformFailure(logger, source, eventName)
	}
}

// TransformFailureCounter returns a transform-failure observer that counts
// failures per successor event.
func TransformFailureCounter(m MetricsRecorder) func(ctx context.Context, source, eventName string, payload any) {
	if m == nil {
		m = NoopMetrics{}
	}
	return func(ctx context.Context, _, eventName string, _ any) {
		m.RecordTransformFailure(ctx, eventName)
	}
}
