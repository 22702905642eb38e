package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
	"github.com/quarrylabs/lodestone/storage/sqlite"
)

func newViewerFixture(t *testing.T) (*Viewer, storage.GraphRepository) {
	t.Helper()
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := store.GraphRepository()
	viewer, err := NewViewer(repo)
	require.NoError(t, err)
	return viewer, repo
}

func TestNewViewer_RequiresRepository(t *testing.T) {
	_, err := NewViewer(nil)
	assert.ErrorIs(t, err, ErrGraphRepositoryRequired)
}

func TestView_ReshapesNodesAndEdges(t *testing.T) {
	viewer, repo := newViewerFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.ApplyBatch(ctx, &storage.GraphBatch{
		Nodes: []core.GraphNode{
			{ID: "Acme Corp", Label: "Acme Corp", Type: "Organization", Summary: "A manufacturer."},
			{ID: "DOC:doc-1", Label: "Annual Report", Type: core.DocumentNodeType, Summary: "Ingested document."},
		},
		Edges: []core.GraphEdge{
			{ID: "DOC:doc-1-mentions-Acme-Corp", Source: "DOC:doc-1", Target: "Acme Corp", Relation: "mentions"},
		},
	}))

	view, err := viewer.View(ctx)
	require.NoError(t, err)

	require.Len(t, view.Nodes, 2)
	byID := map[string]Node{}
	for _, node := range view.Nodes {
		byID[node.ID] = node
	}
	assert.Equal(t, "Organization", byID["Acme Corp"].Group)
	assert.Equal(t, entityNodeWeight, byID["Acme Corp"].Val)
	assert.Equal(t, documentNodeWeight, byID["DOC:doc-1"].Val)
	assert.Equal(t, "Annual Report", byID["DOC:doc-1"].Label)

	require.Len(t, view.Edges, 1)
	assert.Equal(t, "DOC:doc-1", view.Edges[0].Source)
	assert.Equal(t, "mentions", view.Edges[0].Relation)
}

func TestView_CapsNodesAndEdges(t *testing.T) {
	viewer, repo := newViewerFixture(t)
	ctx := context.Background()

	batch := &storage.GraphBatch{}
	for i := 0; i < 130; i++ {
		batch.Nodes = append(batch.Nodes, core.GraphNode{
			ID:    fmt.Sprintf("node-%03d", i),
			Label: fmt.Sprintf("node-%03d", i),
			Type:  "Concept",
		})
	}
	for i := 0; i < 200; i++ {
		batch.Edges = append(batch.Edges, core.GraphEdge{
			ID:       fmt.Sprintf("edge-%03d", i),
			Source:   fmt.Sprintf("node-%03d", i%130),
			Target:   fmt.Sprintf("node-%03d", (i+1)%130),
			Relation: "relates to",
		})
	}
	require.NoError(t, repo.ApplyBatch(ctx, batch))

	view, err := viewer.View(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Nodes, MaxNodes)
	assert.Len(t, view.Edges, MaxEdges)
}

func TestView_EmptyGraph(t *testing.T) {
	viewer, _ := newViewerFixture(t)

	view, err := viewer.View(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.Nodes)
	assert.Empty(t, view.Edges)
}
