package ai

// ExtractedNode is an entity identified in a document excerpt.
// The ID is the entity's canonical name and doubles as the dedup key
// when the graph is persisted.
type ExtractedNode struct {
	// ID is the canonical entity name, e.g. "Kubernetes".
	ID string `json:"id"`

	// Type is a free-text category, e.g. "Concept", "Organization".
	Type string `json:"type"`

	// Summary is a one-sentence description of the entity.
	Summary string `json:"summary"`
}

// ExtractedEdge is a relation between two extracted entities.
type ExtractedEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// ExtractedGraph is the structured result of graph extraction.
// A graph with no nodes and no edges is the degenerate success value
// returned whenever extraction could not produce anything usable.
type ExtractedGraph struct {
	Nodes []ExtractedNode `json:"nodes"`
	Edges []ExtractedEdge `json:"edges"`
}

// EmptyGraph returns a non-nil graph with no nodes and no edges.
func EmptyGraph() *ExtractedGraph {
	return &ExtractedGraph{Nodes: []ExtractedNode{}, Edges: []ExtractedEdge{}}
}

// Empty reports whether the graph carries no nodes and no edges.
func (g *ExtractedGraph) Empty() bool {
	return g == nil || (len(g.Nodes) == 0 && len(g.Edges) == 0)
}
