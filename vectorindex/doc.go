// Package vectorindex abstracts the vector index collaborator: idempotent
// upsert of embedded chunks and cosine topK queries with stored payloads.
//
// Implementations:
//
//   - vectorindex/qdrant: production client over Qdrant's gRPC API
//   - vectorindex/memory: brute-force in-memory index for tests and local use
package vectorindex
