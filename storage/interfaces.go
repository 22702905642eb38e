package storage

import (
	"context"
	"fmt"

	"github.com/quarrylabs/lodestone/core"
)

// DocumentRepository provides operations on document metadata rows.
// The relational store is the source of truth for document metadata;
// full content lives in the blob store and embeddings in the vector index.
type DocumentRepository interface {
	// SaveDocument inserts or replaces a document metadata row.
	SaveDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a document by id.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// ListDocuments retrieves up to limit documents ordered by upload time
	// descending. The bounded preview makes this cheap to render.
	ListDocuments(ctx context.Context, limit int) ([]*core.Document, error)

	// DeleteDocument removes a document metadata row.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id string) error

	// SetChunkCount records how many chunks a document was split into.
	SetChunkCount(ctx context.Context, id string, count int) error

	// SetStatus transitions a document's status. A non-empty reason is
	// attached to the document metadata under the "error" key so the
	// failure is visible to listing callers.
	SetStatus(ctx context.Context, id string, status core.DocumentStatus, reason string) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// GraphBatch is a set of graph writes applied as one indivisible unit.
// Every element is insert-if-absent: applying the same batch twice leaves
// the store unchanged, which is what makes concurrent duplicate ingestions
// converge without locks.
type GraphBatch struct {
	Nodes []core.GraphNode
	Edges []core.GraphEdge
}

// GraphRepository provides operations on the persisted entity/relation graph.
type GraphRepository interface {
	// ApplyBatch submits the batch to the store as a single atomic unit.
	// Nothing is visible on failure.
	ApplyBatch(ctx context.Context, batch *GraphBatch) error

	// ListNodes retrieves up to limit graph nodes.
	ListNodes(ctx context.Context, limit int) ([]core.GraphNode, error)

	// ListEdges retrieves up to limit graph edges.
	ListEdges(ctx context.Context, limit int) ([]core.GraphEdge, error)

	// NodeCount returns the number of persisted nodes.
	NodeCount(ctx context.Context) (int, error)

	// EdgeCount returns the number of persisted edges.
	EdgeCount(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// ObjectInfo describes a stored blob without its content.
type ObjectInfo struct {
	Key  string
	Size int64
}

// BlobStore is the object-storage collaborator owning full document content.
type BlobStore interface {
	// Put stores content and its metadata under key, replacing any
	// previous object with the same key.
	Put(ctx context.Context, key string, content []byte, metadata map[string]string) error

	// Get retrieves an object's content and metadata.
	// Returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, map[string]string, error)

	// Delete removes an object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the objects whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Close closes the store and releases resources.
	Close() error
}

// DocumentKey builds the blob key for a document's full content,
// following the users/{userId}/documents/{documentId}/{filename} convention.
func DocumentKey(userID, documentID, filename string) string {
	return fmt.Sprintf("users/%s/documents/%s/%s", userID, documentID, filename)
}
