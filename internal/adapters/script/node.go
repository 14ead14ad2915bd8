package script

import (
	"context"

	"github.com/grindlemire/graft"
	"go.scriptor.dev/stash/internal/core/ports"
)

// Node IDs for the script dialect adapters.
const (
	// ParserNodeID identifies the Graft node providing ports.Parser.
	ParserNodeID graft.ID = "adapter.script.parser"
	// BuilderNodeID identifies the Graft node providing ports.GraphBuilder.
	BuilderNodeID graft.ID = "adapter.script.builder"
)

func init() {
	graft.Register(graft.Node[ports.Parser]{
		ID:        ParserNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Parser, error) {
			return NewParser(), nil
		},
	})

	graft.Register(graft.Node[ports.GraphBuilder]{
		ID:        BuilderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GraphBuilder, error) {
			return NewBuilder(), nil
		},
	})
}
