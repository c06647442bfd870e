package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider with an in-memory exporter.
func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("eventchain")

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return exporter
}

func TestStartStepSpan(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := StartStepSpan(context.Background(), "login")
	EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "eventchain.step", s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)
	assert.Contains(t, s.Attributes, attribute.String("chain.source", "login"))
}

func TestEndSpanWithError(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := StartStepSpan(context.Background(), "login")
	EndSpanWithError(span, errors.New("unknown successor event"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "unknown successor event", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)

	assert.NotPanics(t, func() { EndSpanWithError(nil, nil) })
}

func TestAddSpanEvent(t *testing.T) {
	exporter := setupTracingTest(t)
	sm := NewSpanManager()

	ctx, span := sm.StartStepSpan(context.Background(), "createUser")
	sm.AddSpanEvent(ctx, "transform.failed", attribute.String("event", "createUser"))
	sm.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "transform.failed", spans[0].Events[0].Name)

	// No span in context: nothing to record on
	assert.NotPanics(t, func() { AddSpanEvent(context.Background(), "ignored") })
}
