// Package ingestion provides pipeline orchestration for processing documents.
//
// The Pipeline type manages the ingestion workflow for a document, including:
//   - Recording document metadata and (optionally) the raw content blob
//   - Chunking, embedding, and upserting vectors
//   - Extracting an entity/relation graph and persisting it
//
// The vector path is fatal on failure; the graph path runs concurrently on a
// worker pool and its failures are logged but never fail the ingestion.
package ingestion
