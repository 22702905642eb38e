package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/vectorindex"
)

// DefaultTopK is the number of matches returned when the caller does
// not specify one.
const DefaultTopK = 5

// Result is one ranked search match.
type Result struct {
	RecordID   string
	DocumentID string
	Title      string
	ChunkText  string
	ChunkIndex int
	Score      float32
}

// Searcher provides semantic search over the vector index.
type Searcher struct {
	index    vectorindex.Index
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(index vectorindex.Index, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		index:    index,
		embedder: provider.Embedder(),
		logger:   slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the query and returns up to topK matches ranked by
// descending similarity. topK values below 1 fall back to DefaultTopK.
// An index holding fewer than topK records returns what it has.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK < 1 {
		topK = DefaultTopK
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		s.logger.Error("error embedding query", "err", err)
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query vector, got %d", ai.ErrEmbeddingMismatch, len(vectors))
	}

	matches, err := s.index.Query(ctx, vectors[0], topK)
	if err != nil {
		s.logger.Error("error querying vector index", "err", err)
		return nil, fmt.Errorf("querying index: %w", err)
	}

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, fromMatch(match))
	}
	return results, nil
}

func fromMatch(match vectorindex.Match) Result {
	result := Result{
		RecordID: match.Record.ID,
		Score:    match.Score,
	}
	payload := match.Record.Payload
	if v, ok := payload["documentId"].(string); ok {
		result.DocumentID = v
	}
	if v, ok := payload["title"].(string); ok {
		result.Title = v
	}
	if v, ok := payload["chunkText"].(string); ok {
		result.ChunkText = v
	}
	switch v := payload["chunkIndex"].(type) {
	case int:
		result.ChunkIndex = v
	case int64:
		result.ChunkIndex = int(v)
	case float64:
		result.ChunkIndex = int(v)
	}
	return result
}
