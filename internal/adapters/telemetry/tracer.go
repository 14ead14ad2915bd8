package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

var (
	_ ports.Telemetry = (*OTelTracer)(nil)
	_ ports.Vertex    = (*OTelVertex)(nil)
)

// OTelTracer implements ports.Telemetry by mapping each vertex onto an
// OpenTelemetry span.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a tracer recording vertexes through the given OTel
// tracer.
func NewOTelTracer(tracer trace.Tracer) *OTelTracer {
	return &OTelTracer{tracer: tracer}
}

// Record implements ports.Telemetry. The returned context carries the span,
// so nested recordings become child spans.
func (t *OTelTracer) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	cfg := &ports.VertexConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)
	if cfg.Internal {
		span.SetAttributes(attribute.Bool("stash.internal", true))
	}

	v := &OTelVertex{span: span}
	return ports.ContextWithVertex(ctx, v), v
}

// Close implements ports.Telemetry. Flushing belongs to the installed span
// processor, not the tracer.
func (t *OTelTracer) Close() error {
	return nil
}

// OTelVertex implements ports.Vertex over a span.
type OTelVertex struct {
	span trace.Span
}

// Stdout implements ports.Vertex.
func (v *OTelVertex) Stdout() io.Writer {
	return &spanLogWriter{span: v.span, stream: "stdout"}
}

// Stderr implements ports.Vertex.
func (v *OTelVertex) Stderr() io.Writer {
	return &spanLogWriter{span: v.span, stream: "stderr"}
}

// Log implements ports.Vertex.
func (v *OTelVertex) Log(level domain.LogLevel, msg string) {
	v.span.AddEvent("log", trace.WithAttributes(
		attribute.String("level", level.String()),
		attribute.String("message", msg),
	))
}

// Complete implements ports.Vertex.
func (v *OTelVertex) Complete(err error) {
	if err != nil {
		v.span.RecordError(err)
		v.span.SetStatus(codes.Error, err.Error())
	} else {
		v.span.SetStatus(codes.Ok, "")
	}
	v.span.End()
}

// Cached implements ports.Vertex.
func (v *OTelVertex) Cached() {
	v.span.SetAttributes(attribute.Bool("cache.hit", true))
}

// spanLogWriter turns output stream writes into span events.
type spanLogWriter struct {
	span   trace.Span
	stream string
}

func (w *spanLogWriter) Write(p []byte) (int, error) {
	w.span.AddEvent("log", trace.WithAttributes(
		attribute.String("stream", w.stream),
		attribute.String("message", string(p)),
	))
	return len(p), nil
}
