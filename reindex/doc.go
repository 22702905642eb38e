// Package reindex rebuilds the vector index from stored document
// content, typically after switching embedding models.
//
// The Reindexer walks every indexed document, reads its full content
// from the blob store, re-chunks and re-embeds it, and upserts the
// resulting vectors. Operations against the embedding service and the
// index are retried with exponential backoff; progress is reported as
// documents complete.
package reindex
