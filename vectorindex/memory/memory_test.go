package memory

import (
	"context"
	"testing"

	"github.com/quarrylabs/lodestone/vectorindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertIdempotent(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	records := []vectorindex.Record{
		{ID: "doc-1-0", Vector: []float32{1, 0}, Payload: map[string]any{"chunkText": "first"}},
		{ID: "doc-1-1", Vector: []float32{0, 1}, Payload: map[string]any{"chunkText": "second"}},
	}
	require.NoError(t, idx.Upsert(ctx, records))
	assert.Equal(t, 2, idx.Len())

	// Re-ingesting the same ids must overwrite, never duplicate.
	records[0].Payload["chunkText"] = "first revised"
	require.NoError(t, idx.Upsert(ctx, records))
	assert.Equal(t, 2, idx.Len())

	matches, err := idx.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-1-0", matches[0].Record.ID)
	assert.Equal(t, "first revised", matches[0].Record.Payload["chunkText"])
}

func TestQueryRanksByCosine(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []vectorindex.Record{
		{ID: "exact", Vector: []float32{1, 0}},
		{ID: "close", Vector: []float32{0.9, 0.1}},
		{ID: "orthogonal", Vector: []float32{0, 1}},
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "exact", matches[0].Record.ID)
	assert.Equal(t, "close", matches[1].Record.ID)
	assert.Equal(t, "orthogonal", matches[2].Record.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestQueryFewerThanTopK(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []vectorindex.Record{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
	}))

	// topK=5 against 2 records returns exactly 2 matches, not an error.
	matches, err := idx.Query(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestQueryInvalidTopK(t *testing.T) {
	idx := NewIndex()
	_, err := idx.Query(context.Background(), []float32{1}, 0)
	assert.ErrorIs(t, err, vectorindex.ErrInvalidTopK)
}

func TestSimulatedFailures(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	idx.FailUpsert = true
	err := idx.Upsert(ctx, []vectorindex.Record{{ID: "a", Vector: []float32{1}}})
	assert.ErrorIs(t, err, vectorindex.ErrUnavailable)
	assert.Equal(t, 0, idx.Len())

	idx.FailUpsert = false
	idx.FailQuery = true
	_, err = idx.Query(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, vectorindex.ErrUnavailable)
}
