package reindex

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/ai/mock"
	"github.com/quarrylabs/lodestone/core"
	badgerstore "github.com/quarrylabs/lodestone/storage/badger"
	"github.com/quarrylabs/lodestone/storage/sqlite"
	"github.com/quarrylabs/lodestone/vectorindex/memory"
)

type reindexFixture struct {
	store    *sqlite.Store
	blobs    *badgerstore.Store
	index    *memory.Index
	embedder *mock.MockEmbedder
}

func newReindexFixture(t *testing.T) *reindexFixture {
	t.Helper()

	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	blobs, err := badgerstore.OpenStore("", true)
	require.NoError(t, err)
	t.Cleanup(func() { blobs.Close() })

	return &reindexFixture{
		store:    store,
		blobs:    blobs,
		index:    memory.NewIndex(),
		embedder: mock.NewMockEmbedder(),
	}
}

func (f *reindexFixture) seedDocument(t *testing.T, id, content string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.store.DocumentRepository().SaveDocument(ctx, &core.Document{
		ID:             id,
		Title:          "Report " + id,
		ContentPreview: core.Preview(content),
		Status:         core.StatusIndexed,
	}))
	key := "users/user-1/documents/" + id + "/content.txt"
	require.NoError(t, f.blobs.Put(ctx, key, []byte(content), nil))
}

func (f *reindexFixture) newReindexer(config *Config) *Reindexer {
	return NewReindexer(f.store.DocumentRepository(), f.blobs, f.index, f.embedder, config, io.Discard)
}

func fastConfig() *Config {
	return &Config{
		MaxDocuments:   100,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestReindexer_RewritesVectors(t *testing.T) {
	f := newReindexFixture(t)
	f.seedDocument(t, "doc-1", "short content")
	f.seedDocument(t, "doc-2", string(make([]byte, 600))) // two chunks

	stats, err := f.newReindexer(fastConfig()).Run(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 3, stats.Chunks)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 3, f.index.Len())
}

func TestReindexer_Idempotent(t *testing.T) {
	f := newReindexFixture(t)
	f.seedDocument(t, "doc-1", "stable content")

	reindexer := f.newReindexer(fastConfig())
	_, err := reindexer.Run(context.Background(), "user-1")
	require.NoError(t, err)
	_, err = reindexer.Run(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, f.index.Len())
}

func TestReindexer_SkipsDocumentsWithoutBlobs(t *testing.T) {
	f := newReindexFixture(t)
	require.NoError(t, f.store.DocumentRepository().SaveDocument(context.Background(), &core.Document{
		ID:     "orphan",
		Title:  "No Blob",
		Status: core.StatusIndexed,
	}))

	stats, err := f.newReindexer(fastConfig()).Run(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Documents)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, f.index.Len())
}

func TestReindexer_CountsFailuresAndContinues(t *testing.T) {
	f := newReindexFixture(t)
	f.seedDocument(t, "doc-1", "first")
	f.seedDocument(t, "doc-2", "second")

	calls := 0
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls <= fastConfig().MaxRetries {
			return nil, ai.ErrEmbeddingService
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}

	stats, err := f.newReindexer(fastConfig()).Run(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Documents)
}

func TestReindexer_EmptyStore(t *testing.T) {
	f := newReindexFixture(t)

	stats, err := f.newReindexer(fastConfig()).Run(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Failed)
}
