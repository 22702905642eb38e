package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocumentStatus tracks a document's progress through the ingestion pipeline.
type DocumentStatus string

const (
	// StatusProcessing means ingestion has started but not yet finished.
	StatusProcessing DocumentStatus = "processing"
	// StatusIndexed means the vector path completed and the document is searchable.
	StatusIndexed DocumentStatus = "indexed"
	// StatusError means the vector path failed; the reason is kept in Metadata["error"].
	StatusError DocumentStatus = "error"
)

// Document is the relational store's view of an ingested document.
// Full content is owned by the blob store; only a bounded preview lives here.
type Document struct {
	ID             string
	Title          string
	ContentPreview string            // First PreviewLength characters of the full content
	Metadata       map[string]string // Open key-value mapping supplied by the caller
	CreatedAt      time.Time
	UploadedAt     time.Time
	Status         DocumentStatus
	ChunkCount     int
}

// Chunk is a contiguous span of a document's content, the unit of embedding.
// Chunks are derived on the fly and never persisted independently.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
}

// GraphNode is an extracted entity. The ID is the entity's canonical name
// and acts as the global dedup key: an entity mentioned by many documents
// has exactly one node.
type GraphNode struct {
	ID      string
	Label   string
	Type    string
	Summary string
}

// GraphEdge is an extracted relation between two nodes. The ID is derived
// deterministically from (source, relation, target) so repeated extraction
// of the same relation is a no-op rather than a duplicate.
type GraphEdge struct {
	ID       string
	Source   string
	Target   string
	Relation string
}

// IngestResult is returned to the caller of every ingestion request.
// Success reflects only the vector path; GraphNodeCount is zero when
// extraction failed or found nothing.
type IngestResult struct {
	DocumentID     string
	Success        bool
	ChunkCount     int
	GraphNodeCount int
}

// ContentHash generates a stable hex identifier from text content using
// BLAKE2b hashing. Identical content always produces the same identifier.
func ContentHash(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, binary.LittleEndian.Uint64(sum))
	return hex.EncodeToString(buf)
}
