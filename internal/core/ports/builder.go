package ports

import "go.scriptor.dev/stash/internal/core/domain"

// GraphBuilder derives the flow graph from a parsed structure.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type GraphBuilder interface {
	// Build derives the flow graph. Deterministic: deeply equal structures
	// must yield deeply equal graphs.
	Build(st *domain.Structure) (*domain.Graph, error)
}
