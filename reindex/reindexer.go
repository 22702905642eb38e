// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
	"github.com/quarrylabs/lodestone/vectorindex"
)

// Config holds configuration for a reindex run.
type Config struct {
	// MaxDocuments bounds how many documents one run processes.
	MaxDocuments int

	// ReportInterval is how often to report progress (number of documents).
	ReportInterval int

	// MaxRetries is the maximum number of attempts for embed and upsert calls.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxDocuments:   10000,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Stats summarizes a reindex run.
type Stats struct {
	Documents int // documents whose vectors were rewritten
	Chunks    int // vectors upserted
	Skipped   int // documents with no stored content or no chunks
	Failed    int // documents whose embed or upsert failed after retries
}

// Reindexer rebuilds vectors for every stored document.
type Reindexer struct {
	documents storage.DocumentRepository
	blobs     storage.BlobStore
	index     vectorindex.Index
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	logger    *slog.Logger
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(
	documents storage.DocumentRepository,
	blobs storage.BlobStore,
	index vectorindex.Index,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Reindexer{
		documents: documents,
		blobs:     blobs,
		index:     index,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		logger:    slog.Default().With("component", "reindex"),
	}
}

// Run re-embeds every document stored for userID and returns run
// statistics. Individual document failures are counted and logged but
// do not stop the run.
func (r *Reindexer) Run(ctx context.Context, userID string) (*Stats, error) {
	docs, err := r.documents.ListDocuments(ctx, r.config.MaxDocuments)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	tracker := NewProgressTracker(r.progress, len(docs), r.config.ReportInterval)
	tracker.Start()
	defer tracker.Finish()

	stats := &Stats{}
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		chunks, err := r.reindexDocument(ctx, userID, doc)
		switch {
		case err == nil && chunks == 0:
			stats.Skipped++
		case err == nil:
			stats.Documents++
			stats.Chunks += chunks
		default:
			stats.Failed++
			r.logger.Error("error reindexing document", "documentId", doc.ID, "err", err)
		}
		tracker.Increment(1)
	}

	r.logger.Info("reindex complete",
		"documents", stats.Documents, "chunks", stats.Chunks,
		"skipped", stats.Skipped, "failed", stats.Failed,
		"elapsed", tracker.Elapsed())
	return stats, nil
}

// reindexDocument re-embeds one document and returns the number of
// vectors written. A document without a content blob is skipped.
func (r *Reindexer) reindexDocument(ctx context.Context, userID string, doc *core.Document) (int, error) {
	prefix := fmt.Sprintf("users/%s/documents/%s/", userID, doc.ID)
	objects, err := r.blobs.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("listing content blobs: %w", err)
	}
	if len(objects) == 0 {
		r.logger.Warn("no content blob for document, skipping", "documentId", doc.ID)
		return 0, nil
	}

	content, _, err := r.blobs.Get(ctx, objects[0].Key)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrContentMissing, objects[0].Key)
	}

	chunks := core.SplitContent(doc.ID, string(content))
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var vectors [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}

	records := make([]vectorindex.Record, len(chunks))
	for i, chunk := range chunks {
		payload := make(map[string]any, len(doc.Metadata)+4)
		for k, v := range doc.Metadata {
			payload[k] = v
		}
		payload["documentId"] = doc.ID
		payload["title"] = doc.Title
		payload["chunkText"] = chunk.Text
		payload["chunkIndex"] = chunk.Index

		records[i] = vectorindex.Record{
			ID:      core.ChunkRecordID(doc.ID, chunk.Index),
			Vector:  vectors[i],
			Payload: payload,
		}
	}

	err = RetryWithBackoff(ctx, func() error {
		return r.index.Upsert(ctx, records)
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return 0, fmt.Errorf("upserting vectors: %w", err)
	}

	return len(records), nil
}
