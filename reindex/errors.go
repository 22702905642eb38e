package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrContentMissing is returned when a document has no stored content blob.
	ErrContentMissing = errors.New("document content missing from blob store")
)
