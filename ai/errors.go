package ai

import "errors"

var (
	// ErrEmbeddingService indicates the embedding service is unreachable or
	// returned a malformed result. Fatal to the enclosing ingestion or search.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrEmbeddingMismatch indicates the service returned a different number
	// of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count does not match input count")
)
