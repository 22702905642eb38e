// Package search provides semantic search over the vector index.
//
// The Searcher type embeds a free-text query and returns the closest
// document chunks ranked by cosine similarity, carrying enough payload
// metadata (document id, title, chunk text) that callers can present
// results without a second content lookup.
package search
