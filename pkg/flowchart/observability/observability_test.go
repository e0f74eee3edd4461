package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestEnrichLogger verifies context fields are attached.
func TestEnrichLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	enriched := EnrichLogger(logger, "chart-1", "project-1")
	require.NotNil(t, enriched)
	enriched.Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"chart_id":"chart-1"`)
	assert.Contains(t, out, `"project_id":"project-1"`)
}

// TestEnrichLogger_Nil verifies a nil logger stays nil.
func TestEnrichLogger_Nil(t *testing.T) {
	assert.Nil(t, EnrichLogger(nil, "c", "p"))
}

// TestLogHelpers_NilLogger verifies every helper tolerates a nil logger.
func TestLogHelpers_NilLogger(t *testing.T) {
	LogMutation(nil, "add_node", "n1", 1, 0)
	LogValidation(nil, true, 0, 1.5)
	LogHistory(nil, "undo", 0, 1)
	LogDocumentReplaced(nil, "chart-1", 2, 1)
	LogPersistence(nil, "save", "p1", 1.2)
	LogPersistenceError(nil, "save", "p1", errors.New("x"))
}

// TestTimedOperation verifies elapsed time is measured in milliseconds.
func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, 4.0)
	assert.Less(t, elapsed, 5000.0)
}

// TestNewMetricsRecorder_RecordsThroughProvider verifies recordings
// reach a configured meter provider.
func TestNewMetricsRecorder_RecordsThroughProvider(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	rec := NewMetricsRecorder()
	ctx := context.Background()
	rec.RecordMutation(ctx, "add_node")
	rec.RecordValidation(ctx, true, 2*time.Millisecond, 3)
	rec.RecordHistory(ctx, "undo")
	rec.RecordPersistence(ctx, "save", 5*time.Millisecond, nil)
	rec.RecordPersistence(ctx, "save", time.Millisecond, errors.New("disk full"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	assert.True(t, names["flowchart.store.mutations"])
	assert.True(t, names["flowchart.validation.passes"])
	assert.True(t, names["flowchart.validation.latency_ms"])
	assert.True(t, names["flowchart.history.steps"])
	assert.True(t, names["flowchart.persist.operations"])
	assert.True(t, names["flowchart.persist.errors"])
}

// TestNewSpanManager_PersistSpan verifies span naming, attributes, and
// status handling.
func TestNewSpanManager_PersistSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))

	sm := NewSpanManager()

	ctx, span := sm.StartPersistSpan(context.Background(), "save", "p1")
	sm.AddSpanEvent(ctx, "document encoded", attribute.Int("bytes", 512))
	sm.EndSpanWithError(span, nil)

	_, span = sm.StartPersistSpan(context.Background(), "load", "p1")
	sm.EndSpanWithError(span, errors.New("not found"))

	ended := sr.Ended()
	require.Len(t, ended, 2)

	saved := ended[0]
	assert.Equal(t, "flowchart.persist.save", saved.Name())
	assert.Equal(t, codes.Ok, saved.Status().Code)
	require.Len(t, saved.Events(), 1)
	assert.Equal(t, "document encoded", saved.Events()[0].Name)

	loaded := ended[1]
	assert.Equal(t, "flowchart.persist.load", loaded.Name())
	assert.Equal(t, codes.Error, loaded.Status().Code)
	assert.NotEmpty(t, loaded.Events(), "error is recorded as an event")
}

// TestNewSpanManager_GenerateSpan verifies the generation span carries
// its endpoint.
func TestNewSpanManager_GenerateSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))

	sm := NewSpanManager()
	_, span := sm.StartGenerateSpan(context.Background(), "http://localhost:8000/api/chat")
	sm.EndSpanWithError(span, nil)

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "flowchart.generate", ended[0].Name())

	attrs := ended[0].Attributes()
	found := false
	for _, kv := range attrs {
		if kv.Key == "generate.endpoint" {
			found = true
			assert.Equal(t, "http://localhost:8000/api/chat", kv.Value.AsString())
		}
	}
	assert.True(t, found)
}

// TestNoopImplementations verifies the disabled paths are safe to call.
func TestNoopImplementations(t *testing.T) {
	var m NoopMetrics
	ctx := context.Background()
	m.RecordMutation(ctx, "add_node")
	m.RecordValidation(ctx, false, 0, 0)
	m.RecordHistory(ctx, "redo")
	m.RecordPersistence(ctx, "save", 0, errors.New("x"))

	var sm NoopSpanManager
	ctx2, span := sm.StartPersistSpan(ctx, "save", "p1")
	assert.Equal(t, ctx, ctx2)
	sm.EndSpanWithError(span, nil)
	sm.AddSpanEvent(ctx, "event")

	_, span = sm.StartGenerateSpan(ctx, "http://x")
	sm.EndSpanWithError(span, errors.New("x"))
}
