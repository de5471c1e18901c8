package plan

// Kind classifies a node's role in the plan hierarchy.
type Kind string

const (
	KindMain    Kind = "main"
	KindSection Kind = "section"
	KindDetail  Kind = "detail"
)

// Node is one box in the rendered diagram.
type Node struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Kind  Kind   `json:"kind"`
}

// Edge is a directed parent->child link between two nodes.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the tree derived from a learning plan for visualization.
// It is recomputed from the plan text on every render and never persisted
// independently of the text it came from.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Root returns the main node, or nil for an empty graph.
func (g *Graph) Root() *Node {
	if g == nil || len(g.Nodes) == 0 {
		return nil
	}
	return &g.Nodes[0]
}

// NodeByID looks a node up by id.
func (g *Graph) NodeByID(id string) *Node {
	if g == nil {
		return nil
	}
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Children returns the targets of all edges leaving the given node,
// in insertion order.
func (g *Graph) Children(id string) []Node {
	if g == nil {
		return nil
	}
	var out []Node
	for _, e := range g.Edges {
		if e.Source != id {
			continue
		}
		if n := g.NodeByID(e.Target); n != nil {
			out = append(out, *n)
		}
	}
	return out
}
