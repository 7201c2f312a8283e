package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "cerebrin.app/backend"

const traceParentKey = "traceparent"

var traceContext = propagation.TraceContext{}

// Span pairs an OTel span with the context that carries it.
type Span struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan opens an internal span under whatever trace ctx already carries.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) *Span {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return &Span{ctx: ctx, span: span}
}

// StartTaskSpan opens the consumer span for one queued task, named
// "task <type>". When traceParent (as written by TraceParent on the
// producer side) is valid, the span joins the trace of the request that
// enqueued the task. Otherwise it starts a fresh trace.
func StartTaskSpan(ctx context.Context, traceParent, taskType string, attempt int) *Span {
	if traceParent != "" {
		ctx = traceContext.Extract(ctx, propagation.MapCarrier{traceParentKey: traceParent})
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "task "+taskType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "redis"),
			attribute.String("cerebrin.task.type", taskType),
			attribute.Int("cerebrin.task.attempt", attempt),
		),
	)
	return &Span{ctx: ctx, span: span}
}

// TraceParent renders the span in ctx as a W3C traceparent header value, or
// "" when ctx carries no valid span.
func TraceParent(ctx context.Context) string {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ""
	}
	carrier := propagation.MapCarrier{}
	traceContext.Inject(ctx, carrier)
	return carrier[traceParentKey]
}

func (s *Span) Context() context.Context {
	return s.ctx
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// Fail records err on the span and marks it as errored. A nil err is ignored.
func (s *Span) Fail(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *Span) End() {
	s.span.End()
}
