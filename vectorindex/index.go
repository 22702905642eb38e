package vectorindex

import "context"

// Record is a single embedded chunk stored in the vector index.
type Record struct {
	// ID is "documentID-chunkIndex". No two chunks of any document share an id,
	// so upserting the same document again overwrites instead of duplicating.
	ID string

	// Vector is the embedding, matching the embedding service's output dimension.
	Vector []float32

	// Payload carries the document metadata plus documentId, title, chunkText
	// and chunkIndex so search results need no second content lookup.
	Payload map[string]any
}

// Match is a query hit annotated with its similarity score.
type Match struct {
	Record Record
	Score  float32
}

// Index stores embeddings and answers nearest-neighbor similarity queries.
// Implementations must be thread-safe for concurrent use.
type Index interface {
	// Upsert replaces any existing record sharing an id. The call is
	// all-or-nothing: no partial upsert is visible on failure, and retrying
	// is safe because records are idempotent by id.
	Upsert(ctx context.Context, records []Record) error

	// Query returns the topK nearest records ranked by cosine similarity,
	// each annotated with score and stored payload. It never mutates state.
	// topK must be positive; fewer than topK matches are returned when the
	// index holds fewer records.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)

	// Close releases the underlying connection or storage.
	Close() error
}
