package script

import (
	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// Builder derives the navigation graph from a parsed structure. It holds no
// state; the zero value is ready to use.
type Builder struct{}

var _ ports.GraphBuilder = (*Builder)(nil)

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build implements ports.GraphBuilder. Edges aimed at blocks that do not
// exist are kept and flagged dangling: the editor surfaces them as problems,
// but an unfinished draft still gets a graph. Node and edge order follows
// block and step order, so identical structures build identical graphs.
func (b *Builder) Build(structure *domain.Structure) (*domain.Graph, error) {
	graph := &domain.Graph{
		Nodes: make([]domain.GraphNode, 0, len(structure.Blocks)),
		Edges: []domain.GraphEdge{},
	}

	defined := make(map[string]bool, len(structure.Blocks))
	for _, block := range structure.Blocks {
		defined[block.Name] = true
	}

	for _, block := range structure.Blocks {
		graph.Nodes = append(graph.Nodes, domain.GraphNode{
			ID:    block.Name,
			Kind:  block.Kind,
			Line:  block.Line,
			Steps: len(block.Steps),
		})

		for _, step := range block.Steps {
			var kind domain.EdgeKind
			switch step.Kind {
			case domain.StepDivert:
				kind = domain.EdgeDivert
			case domain.StepChoice:
				kind = domain.EdgeChoice
			default:
				continue
			}

			graph.Edges = append(graph.Edges, domain.GraphEdge{
				From:     block.Name,
				To:       step.Target,
				Kind:     kind,
				Line:     step.Line,
				Label:    step.Text,
				Dangling: !defined[step.Target],
			})
		}
	}

	return graph, nil
}
