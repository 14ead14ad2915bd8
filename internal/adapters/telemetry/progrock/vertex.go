package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex adapts a progrock vertex recorder to ports.Vertex.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout implements ports.Vertex.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr implements ports.Vertex.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Log implements ports.Vertex by writing a leveled line onto the vertex
// output stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level, msg)
}

// Complete implements ports.Vertex.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}

// Cached implements ports.Vertex.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}
