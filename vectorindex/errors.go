package vectorindex

import "errors"

var (
	// ErrUnavailable indicates the vector index service failed or is
	// unreachable. Fatal to the enclosing ingestion or search.
	ErrUnavailable = errors.New("vector index unavailable")

	// ErrInvalidTopK indicates a non-positive topK was requested.
	ErrInvalidTopK = errors.New("topK must be a positive integer")

	// ErrDimensionMismatch indicates a vector does not match the index's
	// configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
