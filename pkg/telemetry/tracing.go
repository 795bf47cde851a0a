package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vlite/pkg/runtime"
)

// Default tracer name for vlite runtimes.
const defaultTracerName = "vlite"

// TracingConfig configures pass tracing.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "vlite").
	TracerName string

	// Provider supplies the tracer.
	// Default: the global OpenTelemetry tracer provider.
	Provider trace.TracerProvider

	// Attributes adds attributes to every pass span.
	Attributes []attribute.KeyValue
}

// TracingOption configures pass tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) { c.TracerName = name }
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) { c.Provider = p }
}

// WithAttributes adds attributes to every pass span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) { c.Attributes = append(c.Attributes, attrs...) }
}

// Tracer records one span per render pass.
type Tracer struct {
	config TracingConfig
	tracer trace.Tracer
}

var _ runtime.Observer = (*Tracer)(nil)

// NewTracer creates a pass tracer.
func NewTracer(opts ...TracingOption) *Tracer {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{config: config, tracer: provider.Tracer(config.TracerName)}
}

// BeginPass starts the pass span and returns a context carrying it.
func (t *Tracer) BeginPass(ctx context.Context, seq uint64, root string) context.Context {
	attrs := append([]attribute.KeyValue{
		attribute.Int64("vlite.pass.seq", int64(seq)),
		attribute.String("vlite.root", root),
	}, t.config.Attributes...)
	ctx, _ = t.tracer.Start(ctx, "vlite.pass",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx
}

// EndPass records the pass results on the span and ends it.
func (t *Tracer) EndPass(ctx context.Context, r runtime.PassReport) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("vlite.pass.reason", r.Reason),
		attribute.Int("vlite.pass.mutations", r.Stats.Mutations()),
		attribute.Int("vlite.pass.components", r.Stats.Components),
		attribute.Int("vlite.pass.disposed", r.Disposed),
	)
	if r.Err != nil {
		span.RecordError(r.Err)
		span.SetAttributes(attribute.String("vlite.error.code", errorCode(r.Err)))
		span.SetStatus(codes.Error, r.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
