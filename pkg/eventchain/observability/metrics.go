package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records chain metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordStep records one chain step resolved for the source event.
	RecordStep(ctx context.Context, source, outcome, reason string, duration time.Duration)

	// RecordTransformFailure records a successor whose transformer failed.
	RecordTransformFailure(ctx context.Context, eventName string)

	// RecordPublish records an event handed to the scheduling sink.
	RecordPublish(ctx context.Context, eventName string, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	steps             metric.Int64Counter
	stepLatency       metric.Float64Histogram
	transformFailures metric.Int64Counter
	published         metric.Int64Counter
	publishErrors     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventchain")

	steps, err := meter.Int64Counter("eventchain.step.count",
		metric.WithDescription("Number of resolved chain steps"),
	)
	if err != nil {
		return nil, err
	}

	stepLatency, err := meter.Float64Histogram("eventchain.step.latency_ms",
		metric.WithDescription("Chain step resolution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transformFailures, err := meter.Int64Counter("eventchain.transform.failures",
		metric.WithDescription("Number of successor transformations that returned FAILURE"),
	)
	if err != nil {
		return nil, err
	}

	published, err := meter.Int64Counter("eventchain.publish.count",
		metric.WithDescription("Number of events handed to the scheduling sink"),
	)
	if err != nil {
		return nil, err
	}

	publishErrors, err := meter.Int64Counter("eventchain.publish.errors",
		metric.WithDescription("Number of sink failures"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		steps:             steps,
		stepLatency:       stepLatency,
		transformFailures: transformFailures,
		published:         published,
		publishErrors:     publishErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordStep(ctx context.Context, source, outcome, reason string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
		attribute.String("reason", reason),
	)
	m.steps.Add(ctx, 1, attrs)
	m.stepLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

func (m *otelMetrics) RecordTransformFailure(ctx context.Context, eventName string) {
	m.transformFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", eventName),
	))
}

func (m *otelMetrics) RecordPublish(ctx context.Context, eventName string, err error) {
	attrs := metric.WithAttributes(attribute.String("event", eventName))
	if err != nil {
		m.publishErrors.Add(ctx, 1, attrs)
		return
	}
	m.published.Add(ctx, 1, attrs)
}
