// Package telemetry records cache work as progress vertexes or trace spans,
// selected by configuration.
package telemetry

import (
	"context"
	"io"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

var (
	_ ports.Telemetry = Noop{}
	_ ports.Vertex    = NoopVertex{}
)

// Noop is the disabled telemetry mode. Vertexes accept writes and vanish.
type Noop struct{}

// Record implements ports.Telemetry.
func (Noop) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, NoopVertex{}
}

// Close implements ports.Telemetry.
func (Noop) Close() error {
	return nil
}

// NoopVertex implements ports.Vertex with no behavior.
type NoopVertex struct{}

// Stdout implements ports.Vertex.
func (NoopVertex) Stdout() io.Writer {
	return io.Discard
}

// Stderr implements ports.Vertex.
func (NoopVertex) Stderr() io.Writer {
	return io.Discard
}

// Log implements ports.Vertex.
func (NoopVertex) Log(domain.LogLevel, string) {}

// Complete implements ports.Vertex.
func (NoopVertex) Complete(error) {}

// Cached implements ports.Vertex.
func (NoopVertex) Cached() {}
