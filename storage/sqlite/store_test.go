package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDocument(id string) *core.Document {
	return &core.Document{
		ID:             id,
		Title:          "Annual Report",
		ContentPreview: "The first five hundred characters of the document.",
		Metadata:       map[string]string{"source": "upload"},
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UploadedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:         core.StatusProcessing,
	}
}

func TestDocumentRepository_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()
	ctx := context.Background()

	doc := testDocument("doc-1")
	require.NoError(t, repo.SaveDocument(ctx, doc))

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.ContentPreview, got.ContentPreview)
	assert.Equal(t, doc.Metadata, got.Metadata)
	assert.Equal(t, core.StatusProcessing, got.Status)
	assert.True(t, doc.UploadedAt.Equal(got.UploadedAt))
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()

	_, err := repo.GetDocument(context.Background(), "absent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()
	ctx := context.Background()

	doc := testDocument("doc-1")
	require.NoError(t, repo.SaveDocument(ctx, doc))

	doc.Title = "Revised Report"
	require.NoError(t, repo.SaveDocument(ctx, doc))

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Revised Report", got.Title)

	docs, err := repo.ListDocuments(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentRepository_ListOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()
	ctx := context.Background()

	for i, id := range []string{"doc-a", "doc-b", "doc-c"} {
		doc := testDocument(id)
		doc.UploadedAt = time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC)
		require.NoError(t, repo.SaveDocument(ctx, doc))
	}

	docs, err := repo.ListDocuments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-c", docs[0].ID)
	assert.Equal(t, "doc-b", docs[1].ID)
}

func TestDocumentRepository_Delete(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, repo.DeleteDocument(ctx, "doc-1"))

	_, err := repo.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteDocument(ctx, "doc-1"), storage.ErrNotFound)
}

func TestDocumentRepository_SetChunkCount(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, repo.SetChunkCount(ctx, "doc-1", 20))

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.ChunkCount)

	assert.ErrorIs(t, repo.SetChunkCount(ctx, "absent", 1), storage.ErrNotFound)
}

func TestDocumentRepository_SetStatusWithReason(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, repo.SetStatus(ctx, "doc-1", core.StatusError, "embedding service unreachable"))

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusError, got.Status)
	assert.Equal(t, "embedding service unreachable", got.Metadata["error"])
	assert.Equal(t, "upload", got.Metadata["source"])
}

func TestDocumentRepository_SetStatusWithoutReason(t *testing.T) {
	store := newTestStore(t)
	repo := store.DocumentRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, repo.SetStatus(ctx, "doc-1", core.StatusIndexed, ""))

	got, err := repo.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusIndexed, got.Status)
	_, hasError := got.Metadata["error"]
	assert.False(t, hasError)
}

func testBatch() *storage.GraphBatch {
	return &storage.GraphBatch{
		Nodes: []core.GraphNode{
			{ID: "Acme Corp", Label: "Acme Corp", Type: "Organization", Summary: "A manufacturer."},
			{ID: "Jane Doe", Label: "Jane Doe", Type: "Person", Summary: "Chief executive."},
		},
		Edges: []core.GraphEdge{
			{ID: "Jane-Doe-leads-Acme-Corp", Source: "Jane Doe", Target: "Acme Corp", Relation: "leads"},
		},
	}
}

func TestGraphRepository_ApplyBatch(t *testing.T) {
	store := newTestStore(t)
	repo := store.GraphRepository()
	ctx := context.Background()

	require.NoError(t, repo.ApplyBatch(ctx, testBatch()))

	nodes, err := repo.NodeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, nodes)

	edges, err := repo.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, edges)
}

func TestGraphRepository_ApplyBatchIdempotent(t *testing.T) {
	store := newTestStore(t)
	repo := store.GraphRepository()
	ctx := context.Background()

	require.NoError(t, repo.ApplyBatch(ctx, testBatch()))
	require.NoError(t, repo.ApplyBatch(ctx, testBatch()))

	nodes, err := repo.NodeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, nodes)

	edges, err := repo.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, edges)
}

func TestGraphRepository_ExistingNodeKeepsSummary(t *testing.T) {
	store := newTestStore(t)
	repo := store.GraphRepository()
	ctx := context.Background()

	require.NoError(t, repo.ApplyBatch(ctx, testBatch()))

	second := testBatch()
	second.Nodes[0].Summary = "A different summary from a later document."
	require.NoError(t, repo.ApplyBatch(ctx, second))

	nodes, err := repo.ListNodes(ctx, 10)
	require.NoError(t, err)
	for _, node := range nodes {
		if node.ID == "Acme Corp" {
			assert.Equal(t, "A manufacturer.", node.Summary)
		}
	}
}

func TestGraphRepository_ListLimits(t *testing.T) {
	store := newTestStore(t)
	repo := store.GraphRepository()
	ctx := context.Background()

	require.NoError(t, repo.ApplyBatch(ctx, testBatch()))

	nodes, err := repo.ListNodes(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)

	edges, err := repo.ListEdges(ctx, 10)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "leads", edges[0].Relation)
}

func TestGraphRepository_EmptyBatch(t *testing.T) {
	store := newTestStore(t)
	repo := store.GraphRepository()

	assert.NoError(t, repo.ApplyBatch(context.Background(), nil))
	assert.NoError(t, repo.ApplyBatch(context.Background(), &storage.GraphBatch{}))
}
