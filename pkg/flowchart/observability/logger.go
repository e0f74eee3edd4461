// Package observability provides structured logging, metrics, and
// tracing for the flowchart store.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds flowchart context to a logger.
// Returns a new logger with chart_id and project_id fields.
func EnrichLogger(logger *slog.Logger, chartID, projectID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("chart_id", chartID),
		slog.String("project_id", projectID),
	)
}

// LogMutation logs a structural store mutation.
func LogMutation(logger *slog.Logger, op, targetID string, nodeCount, edgeCount int) {
	if logger == nil {
		return
	}
	logger.Debug("store mutation",
		slog.String("op", op),
		slog.String("target_id", targetID),
		slog.Int("nodes", nodeCount),
		slog.Int("edges", edgeCount),
	)
}

// LogValidation logs the outcome of a validation pass.
func LogValidation(logger *slog.Logger, full bool, diagnostics int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("validation pass",
		slog.Bool("full", full),
		slog.Int("diagnostics", diagnostics),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogHistory logs an undo or redo step.
func LogHistory(logger *slog.Logger, op string, pastDepth, futureDepth int) {
	if logger == nil {
		return
	}
	logger.Debug("history step",
		slog.String("op", op),
		slog.Int("past_depth", pastDepth),
		slog.Int("future_depth", futureDepth),
	)
}

// LogDocumentReplaced logs a wholesale document swap (project load or
// generated flow ingest).
func LogDocumentReplaced(logger *slog.Logger, chartID string, nodeCount, edgeCount int) {
	if logger == nil {
		return
	}
	logger.Info("document replaced",
		slog.String("chart_id", chartID),
		slog.Int("nodes", nodeCount),
		slog.Int("edges", edgeCount),
	)
}

// LogPersistence logs a load or save through a persistence adapter.
func LogPersistence(logger *slog.Logger, op, projectID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("persistence operation",
		slog.String("op", op),
		slog.String("project_id", projectID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogPersistenceError logs a failed load or save.
func LogPersistenceError(logger *slog.Logger, op, projectID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("persistence operation failed",
		slog.String("op", op),
		slog.String("project_id", projectID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... work ...
//	elapsedMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000.0
	}
}
