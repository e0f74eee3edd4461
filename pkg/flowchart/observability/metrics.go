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

// MetricsRecorder records flowchart store metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordMutation records one structural store mutation.
	RecordMutation(ctx context.Context, op string)

	// RecordValidation records a validation pass with its duration and
	// the number of diagnostics it produced.
	RecordValidation(ctx context.Context, full bool, duration time.Duration, diagnostics int)

	// RecordHistory records an undo or redo step.
	RecordHistory(ctx context.Context, op string)

	// RecordPersistence records a load or save through an adapter.
	RecordPersistence(ctx context.Context, op string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	mutations         metric.Int64Counter
	validationPasses  metric.Int64Counter
	validationLatency metric.Float64Histogram
	diagnosticCount   metric.Int64Histogram
	historySteps      metric.Int64Counter
	persistOps        metric.Int64Counter
	persistLatency    metric.Float64Histogram
	persistErrors     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("flowchart")

	mutations, err := meter.Int64Counter("flowchart.store.mutations",
		metric.WithDescription("Number of structural store mutations"),
	)
	if err != nil {
		return nil, err
	}

	validationPasses, err := meter.Int64Counter("flowchart.validation.passes",
		metric.WithDescription("Number of validation passes"),
	)
	if err != nil {
		return nil, err
	}

	validationLatency, err := meter.Float64Histogram("flowchart.validation.latency_ms",
		metric.WithDescription("Validation pass latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	diagnosticCount, err := meter.Int64Histogram("flowchart.validation.diagnostics",
		metric.WithDescription("Diagnostics produced per validation pass"),
	)
	if err != nil {
		return nil, err
	}

	historySteps, err := meter.Int64Counter("flowchart.history.steps",
		metric.WithDescription("Number of undo/redo steps"),
	)
	if err != nil {
		return nil, err
	}

	persistOps, err := meter.Int64Counter("flowchart.persist.operations",
		metric.WithDescription("Number of persistence operations"),
	)
	if err != nil {
		return nil, err
	}

	persistLatency, err := meter.Float64Histogram("flowchart.persist.latency_ms",
		metric.WithDescription("Persistence operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	persistErrors, err := meter.Int64Counter("flowchart.persist.errors",
		metric.WithDescription("Number of failed persistence operations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		mutations:         mutations,
		validationPasses:  validationPasses,
		validationLatency: validationLatency,
		diagnosticCount:   diagnosticCount,
		historySteps:      historySteps,
		persistOps:        persistOps,
		persistLatency:    persistLatency,
		persistErrors:     persistErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
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

// RecordMutation records one structural store mutation.
func (m *otelMetrics) RecordMutation(ctx context.Context, op string) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
	))
}

// RecordValidation records a validation pass.
func (m *otelMetrics) RecordValidation(ctx context.Context, full bool, duration time.Duration, diagnostics int) {
	attrs := []attribute.KeyValue{
		attribute.Bool("full", full),
	}
	m.validationPasses.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.validationLatency.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))
	m.diagnosticCount.Record(ctx, int64(diagnostics), metric.WithAttributes(attrs...))
}

// RecordHistory records an undo or redo step.
func (m *otelMetrics) RecordHistory(ctx context.Context, op string) {
	m.historySteps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
	))
}

// RecordPersistence records a load or save through an adapter.
func (m *otelMetrics) RecordPersistence(ctx context.Context, op string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("op", op),
	}
	m.persistOps.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.persistLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		m.persistErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
