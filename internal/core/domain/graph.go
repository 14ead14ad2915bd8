package domain

// EdgeKind classifies a flow graph edge.
type EdgeKind string

const (
	// EdgeDivert is an unconditional transition.
	EdgeDivert EdgeKind = "divert"
	// EdgeChoice is a transition taken through a choice.
	EdgeChoice EdgeKind = "choice"
)

// GraphNode is a single block in the flow graph.
type GraphNode struct {
	ID    string    `json:"id"`
	Kind  BlockKind `json:"kind"`
	Line  int       `json:"line"`
	Steps int       `json:"steps"`
}

// GraphEdge is a transition between two blocks. Dangling marks an edge whose
// target block does not exist in the structure; the editor surfaces those as
// authoring errors, so the builder keeps them instead of failing.
type GraphEdge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Kind     EdgeKind `json:"kind"`
	Line     int      `json:"line"`
	Label    string   `json:"label,omitzero"`
	Dangling bool     `json:"dangling,omitzero"`
}

// Graph is the flow representation derived from a Structure, expensive to
// recompute. Node and edge order follows block and step order, so identical
// structures yield deeply equal graphs.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// DanglingEdges returns the edges whose target block does not exist.
func (g *Graph) DanglingEdges() []GraphEdge {
	var out []GraphEdge
	for _, e := range g.Edges {
		if e.Dangling {
			out = append(out, e)
		}
	}
	return out
}
