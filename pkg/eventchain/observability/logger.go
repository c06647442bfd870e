// Package observability provides structured logging, metrics, and tracing
// for chain resolution.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Every logging helper accepts a nil logger and does nothing with it.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds chain context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "chain-123", "login")
//	enriched.Info("publishing") // includes chain_id and event
func EnrichLogger(logger *slog.Logger, chainID, eventName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("chain_id", chainID),
		slog.String("event", eventName),
	)
}

// LogStepOutcome logs the result of one chain step.
// next is empty unless the chain continues.
func LogStepOutcome(logger *slog.Logger, source, outcome, reason, next string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("chain step resolved",
		slog.String("source", source),
		slog.String("outcome", outcome),
		slog.String("reason", reason),
		slog.String("next", next),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogTransformFailure logs a successor whose transformer refused to build input.
func LogTransformFailure(logger *slog.Logger, source, eventName string) {
	if logger == nil {
		return
	}
	logger.Warn("transform failed, chain ends",
		slog.String("source", source),
		slog.String("event", eventName),
	)
}

// LogConfigError logs a fatal wiring defect.
// logger should carry the chain context (see EnrichLogger).
func LogConfigError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Error("chain misconfigured, no further events will be published",
		slog.String("error", err.Error()),
	)
}

// LogChainHalted logs a publish attempt refused for a halted chain.
func LogChainHalted(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Warn("chain halted, event dropped")
}

// LogPublished logs an event handed to the scheduling sink.
func LogPublished(logger *slog.Logger, scheduledAt time.Time) {
	if logger == nil {
		return
	}
	logger.Debug("event published",
		slog.Time("scheduled_at", scheduledAt),
	)
}

// LogPublishError logs a sink failure.
func LogPublishError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Error("event publish failed",
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
