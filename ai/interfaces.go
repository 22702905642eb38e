package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error wrapping ErrEmbeddingService if generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// single batched call. The returned slice contains embeddings in the same
	// order as the input texts: output i corresponds to input i.
	// Returns an error wrapping ErrEmbeddingService if the service is
	// unreachable or returns a size-mismatched result. There is no partial
	// success: either every input is embedded or none are.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// GraphExtractor extracts an entity/relation graph from a document excerpt.
// Implementations must be thread-safe for concurrent use.
//
// Extraction is a best-effort enrichment: implementations degrade to an
// empty graph on malformed model output rather than surfacing a parse error,
// so a misbehaving model can never fail an enclosing ingestion.
type GraphExtractor interface {
	// ExtractGraph analyzes the excerpt and returns the entities and
	// relations it describes. Returns an empty graph when nothing could be
	// extracted. An error is reserved for failures the implementation does
	// not absorb; callers on the ingestion path must treat any error as an
	// empty graph.
	ExtractGraph(ctx context.Context, excerpt string) (*ExtractedGraph, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// GraphExtractor instances sharing configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// GraphExtractor returns the graph extraction service.
	// The returned GraphExtractor is safe for concurrent use.
	GraphExtractor() GraphExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
