package mock

import (
	"context"
	"strings"

	"github.com/quarrylabs/lodestone/ai"
)

// MockGraphExtractor is a test double for ai.GraphExtractor.
// It allows custom behavior injection via function fields.
type MockGraphExtractor struct {
	// ExtractGraphFunc is called by ExtractGraph if set.
	// If nil, uses default simple word extraction.
	ExtractGraphFunc func(ctx context.Context, excerpt string) (*ai.ExtractedGraph, error)

	callCount int
}

// NewMockGraphExtractor creates a mock graph extractor with default behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockGraphExtractor() *MockGraphExtractor {
	return &MockGraphExtractor{}
}

// ExtractGraph builds a simple mock graph from the excerpt.
// Default behavior: capitalized words become nodes, adjacent nodes are linked.
func (m *MockGraphExtractor) ExtractGraph(ctx context.Context, excerpt string) (*ai.ExtractedGraph, error) {
	m.callCount++

	if m.ExtractGraphFunc != nil {
		return m.ExtractGraphFunc(ctx, excerpt)
	}

	graph := ai.EmptyGraph()
	seen := make(map[string]bool)
	for _, word := range strings.Fields(excerpt) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" || word[0] < 'A' || word[0] > 'Z' || seen[word] {
			continue
		}
		seen[word] = true
		graph.Nodes = append(graph.Nodes, ai.ExtractedNode{
			ID:      word,
			Type:    "Concept",
			Summary: "Mentioned in the excerpt.",
		})
		if len(graph.Nodes) >= 5 {
			break
		}
	}
	for i := 1; i < len(graph.Nodes); i++ {
		graph.Edges = append(graph.Edges, ai.ExtractedEdge{
			Source:   graph.Nodes[i-1].ID,
			Target:   graph.Nodes[i].ID,
			Relation: "appears with",
		})
	}
	return graph, nil
}

// CallCount returns the number of times ExtractGraph was called.
func (m *MockGraphExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGraphExtractor) Reset() {
	m.callCount = 0
	m.ExtractGraphFunc = nil
}
