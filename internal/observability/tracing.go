package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope used for every span.
const TracerName = "github.com/robbyt/go-seval"

// Span attribute keys.
const (
	AttrUnitID    = attribute.Key("seval.unit.id")
	AttrRunID     = attribute.Key("seval.run.id")
	AttrParams    = attribute.Key("seval.params")
	AttrArgCount  = attribute.Key("seval.args.count")
	AttrResult    = attribute.Key("seval.result")
	AttrValueType = attribute.Key("seval.value.type")
)

// TracerSetup holds a TracerProvider and its tracer. It is handed to components that
// want spans; it is never installed as the global provider.
type TracerSetup struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracerSetup creates a TracerProvider for serviceName. Exporters and processors are
// passed as provider options, e.g. sdktrace.WithBatcher(exporter).
func NewTracerSetup(serviceName string, opts ...sdktrace.TracerProviderOption) *TracerSetup {
	if serviceName == "" {
		serviceName = "seval"
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String(serviceName))

	tp := sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
	}, opts...)...)

	return &TracerSetup{
		provider: tp,
		tracer:   tp.Tracer(TracerName),
	}
}

// Tracer returns the tracer for creating spans. A nil setup yields a no-op tracer.
func (t *TracerSetup) Tracer() trace.Tracer {
	if t == nil {
		return noop.NewTracerProvider().Tracer(TracerName)
	}
	return t.tracer
}

// Shutdown flushes pending spans and shuts down the provider.
func (t *TracerSetup) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// TracerOrNoop returns tr, or a no-op tracer when tr is nil.
func TracerOrNoop(tr trace.Tracer) trace.Tracer {
	if tr == nil {
		return noop.NewTracerProvider().Tracer(TracerName)
	}
	return tr
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
