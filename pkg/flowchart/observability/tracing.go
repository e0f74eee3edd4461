package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the flowchart tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("flowchart")

// SpanManager handles trace span lifecycle around the asynchronous
// edges of the store: persistence and flow generation.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartPersistSpan starts a span for a load or save of a project.
	StartPersistSpan(ctx context.Context, op, projectID string) (context.Context, trace.Span)

	// StartGenerateSpan starts a span for an AI flow-generation call.
	StartGenerateSpan(ctx context.Context, endpoint string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartPersistSpan starts a span for a load or save of a project.
func (m *otelSpanManager) StartPersistSpan(ctx context.Context, op, projectID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flowchart.persist."+op,
		trace.WithAttributes(
			attribute.String("persist.op", op),
			attribute.String("project.id", projectID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartGenerateSpan starts a span for an AI flow-generation call.
func (m *otelSpanManager) StartGenerateSpan(ctx context.Context, endpoint string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flowchart.generate",
		trace.WithAttributes(
			attribute.String("generate.endpoint", endpoint),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
