package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/core"
)

func TestBuildGraphBatch_EmptyGraphStillAnchorsDocument(t *testing.T) {
	batch := BuildGraphBatch("doc-1", "Quarterly Report", ai.EmptyGraph())

	require.Len(t, batch.Nodes, 1)
	assert.Equal(t, "DOC:doc-1", batch.Nodes[0].ID)
	assert.Equal(t, core.DocumentNodeType, batch.Nodes[0].Type)
	assert.Equal(t, "Quarterly Report", batch.Nodes[0].Label)
	assert.Empty(t, batch.Edges)
}

func TestBuildGraphBatch_NilGraph(t *testing.T) {
	batch := BuildGraphBatch("doc-1", "Title", nil)
	require.Len(t, batch.Nodes, 1)
	assert.Empty(t, batch.Edges)
}

func TestBuildGraphBatch_NodesEdgesAndMentions(t *testing.T) {
	graph := &ai.ExtractedGraph{
		Nodes: []ai.ExtractedNode{
			{ID: "Acme Corp", Type: "Organization", Summary: "A manufacturer."},
			{ID: "Jane Doe", Type: "Person", Summary: "Chief executive."},
		},
		Edges: []ai.ExtractedEdge{
			{Source: "Jane Doe", Target: "Acme Corp", Relation: "leads"},
		},
	}

	batch := BuildGraphBatch("doc-1", "Report", graph)

	require.Len(t, batch.Nodes, 3)
	assert.Equal(t, "Acme Corp", batch.Nodes[0].ID)
	assert.Equal(t, "DOC:doc-1", batch.Nodes[2].ID)

	// One extracted edge plus one mentions edge per entity.
	require.Len(t, batch.Edges, 3)
	assert.Equal(t, core.EdgeID("Jane Doe", "leads", "Acme Corp"), batch.Edges[0].ID)
	assert.Equal(t, "DOC:doc-1", batch.Edges[1].Source)
	assert.Equal(t, "Acme Corp", batch.Edges[1].Target)
	assert.Equal(t, core.MentionsRelation, batch.Edges[1].Relation)
	assert.Equal(t, "Jane Doe", batch.Edges[2].Target)
}

func TestBuildGraphBatch_MentionsCappedAtThree(t *testing.T) {
	graph := &ai.ExtractedGraph{
		Nodes: []ai.ExtractedNode{
			{ID: "A", Type: "Concept"},
			{ID: "B", Type: "Concept"},
			{ID: "C", Type: "Concept"},
			{ID: "D", Type: "Concept"},
			{ID: "E", Type: "Concept"},
		},
	}

	batch := BuildGraphBatch("doc-1", "Report", graph)

	mentions := 0
	for _, edge := range batch.Edges {
		if edge.Relation == core.MentionsRelation {
			mentions++
		}
	}
	assert.Equal(t, 3, mentions)
}

func TestBuildGraphBatch_DedupAndDropInvalid(t *testing.T) {
	graph := &ai.ExtractedGraph{
		Nodes: []ai.ExtractedNode{
			{ID: "Acme Corp", Type: "Organization"},
			{ID: "Acme Corp", Type: "Organization"},
			{ID: "", Type: "Ghost"},
		},
		Edges: []ai.ExtractedEdge{
			{Source: "Acme Corp", Target: "Jane Doe", Relation: "employs"},
			{Source: "Acme Corp", Target: "Jane Doe", Relation: "employs"},
			{Source: "", Target: "Jane Doe", Relation: "employs"},
		},
	}

	batch := BuildGraphBatch("doc-1", "Report", graph)

	require.Len(t, batch.Nodes, 2) // Acme Corp + document node
	extracted := 0
	for _, edge := range batch.Edges {
		if edge.Relation == "employs" {
			extracted++
		}
	}
	assert.Equal(t, 1, extracted)
}

func TestBuildGraphBatch_Deterministic(t *testing.T) {
	graph := &ai.ExtractedGraph{
		Nodes: []ai.ExtractedNode{{ID: "Acme Corp", Type: "Organization"}},
		Edges: []ai.ExtractedEdge{{Source: "Acme Corp", Target: "Jane Doe", Relation: "works with"}},
	}

	first := BuildGraphBatch("doc-1", "Report", graph)
	second := BuildGraphBatch("doc-1", "Report", graph)
	assert.Equal(t, first, second)
	assert.Equal(t, "Acme-Corp-works-with-Jane-Doe", first.Edges[0].ID)
}
