package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
)

// documentRepository implements storage.DocumentRepository.
type documentRepository struct {
	store *Store
}

var _ storage.DocumentRepository = (*documentRepository)(nil)

// SaveDocument inserts or replaces a document metadata row.
func (r *documentRepository) SaveDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	metadata := doc.Metadata
	if metadata == nil {
		// Stored as a JSON object so json_set can merge keys later.
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	uploadedAt := doc.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = createdAt
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content_preview, metadata, created_at, uploaded_at, status, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content_preview = excluded.content_preview,
			metadata = excluded.metadata,
			uploaded_at = excluded.uploaded_at,
			status = excluded.status,
			chunk_count = excluded.chunk_count`,
		doc.ID, doc.Title, doc.ContentPreview, string(metadataJSON),
		createdAt.Format(time.RFC3339Nano), uploadedAt.Format(time.RFC3339Nano),
		string(doc.Status), doc.ChunkCount)
	if err != nil {
		return fmt.Errorf("%w: saving document: %w", storage.ErrRelationalStore, err)
	}
	return nil
}

// GetDocument retrieves a document by id.
func (r *documentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, title, content_preview, metadata, created_at, uploaded_at, status, chunk_count
		FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// ListDocuments retrieves up to limit documents, most recently uploaded first.
func (r *documentRepository) ListDocuments(ctx context.Context, limit int) ([]*core.Document, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, title, content_preview, metadata, created_at, uploaded_at, status, chunk_count
		FROM documents ORDER BY uploaded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %w", storage.ErrRelationalStore, err)
	}
	defer rows.Close()

	var docs []*core.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing documents: %w", storage.ErrRelationalStore, err)
	}
	return docs, nil
}

// DeleteDocument removes a document metadata row.
func (r *documentRepository) DeleteDocument(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting document: %w", storage.ErrRelationalStore, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting document: %w", storage.ErrRelationalStore, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetChunkCount records how many chunks a document was split into.
func (r *documentRepository) SetChunkCount(ctx context.Context, id string, count int) error {
	result, err := r.store.db.ExecContext(ctx,
		`UPDATE documents SET chunk_count = ? WHERE id = ?`, count, id)
	if err != nil {
		return fmt.Errorf("%w: updating chunk count: %w", storage.ErrRelationalStore, err)
	}
	return errIfMissing(result)
}

// SetStatus transitions a document's status. A non-empty reason is merged
// into the metadata JSON under the "error" key.
func (r *documentRepository) SetStatus(ctx context.Context, id string, status core.DocumentStatus, reason string) error {
	if err := core.ValidateStatus(status); err != nil {
		return err
	}

	var result sql.Result
	var err error
	if reason == "" {
		result, err = r.store.db.ExecContext(ctx,
			`UPDATE documents SET status = ? WHERE id = ?`, string(status), id)
	} else {
		result, err = r.store.db.ExecContext(ctx,
			`UPDATE documents SET status = ?, metadata = json_set(metadata, '$.error', ?) WHERE id = ?`,
			string(status), reason, id)
	}
	if err != nil {
		return fmt.Errorf("%w: updating status: %w", storage.ErrRelationalStore, err)
	}
	return errIfMissing(result)
}

// Close is a no-op; the underlying Store owns the connection.
func (r *documentRepository) Close() error {
	return nil
}

func errIfMissing(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrRelationalStore, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*core.Document, error) {
	var doc core.Document
	var metadataJSON, createdAt, uploadedAt, status string

	err := row.Scan(&doc.ID, &doc.Title, &doc.ContentPreview, &metadataJSON,
		&createdAt, &uploadedAt, &status, &doc.ChunkCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanning document: %w", storage.ErrRelationalStore, err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("%w: decoding metadata: %w", storage.ErrRelationalStore, err)
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("%w: decoding created_at: %w", storage.ErrRelationalStore, err)
	}
	if doc.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt); err != nil {
		return nil, fmt.Errorf("%w: decoding uploaded_at: %w", storage.ErrRelationalStore, err)
	}
	doc.Status = core.DocumentStatus(status)
	return &doc, nil
}
