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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
	"github.com/quarrylabs/lodestone/vectorindex"
)

// Pipeline orchestrates the ingestion of documents. It sequences the
// vector path (chunk, embed, upsert) synchronously and runs the graph
// path (extract, persist) on a worker pool. The pipeline holds no
// per-document state.
type Pipeline struct {
	documents storage.DocumentRepository
	graph     storage.GraphRepository
	index     vectorindex.Index
	blobs     storage.BlobStore
	embedder  ai.Embedder
	extractor ai.GraphExtractor
	graphPool *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for the graph path.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.graphPool != nil {
			p.graphPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.graphPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithBlobStore sets the object store that receives raw document
// content. Without one, content is chunked and embedded but the full
// text is not retained.
func WithBlobStore(blobs storage.BlobStore) Option {
	return func(p *Pipeline) error {
		p.blobs = blobs
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	graph storage.GraphRepository,
	index vectorindex.Index,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		graph:     graph,
		index:     index,
		embedder:  provider.Embedder(),
		extractor: provider.GraphExtractor(),
		graphPool: pool,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Request describes one document to ingest.
type Request struct {
	UserID     string
	DocumentID string
	Title      string
	Content    string
	Filename   string
	Metadata   map[string]string
}

// Ingest processes one document. The returned result reflects the
// vector path only: a graph extraction or persistence failure still
// yields Success true with GraphNodeCount zero. A vector-path failure
// marks the document status error with the reason attached and returns
// a non-nil error alongside the result.
func (p *Pipeline) Ingest(ctx context.Context, req *Request) (*core.IngestResult, error) {
	if req.DocumentID == "" {
		req.DocumentID = core.ContentHash(req.Content)
	}
	result := &core.IngestResult{DocumentID: req.DocumentID}

	now := time.Now().UTC()
	doc := &core.Document{
		ID:             req.DocumentID,
		Title:          req.Title,
		ContentPreview: core.Preview(req.Content),
		Metadata:       req.Metadata,
		CreatedAt:      now,
		UploadedAt:     now,
		Status:         core.StatusProcessing,
	}
	if err := p.documents.SaveDocument(ctx, doc); err != nil {
		return result, fmt.Errorf("saving document: %w", err)
	}

	if p.blobs != nil {
		filename := req.Filename
		if filename == "" {
			filename = "content.txt"
		}
		key := storage.DocumentKey(req.UserID, req.DocumentID, filename)
		if err := p.blobs.Put(ctx, key, []byte(req.Content), req.Metadata); err != nil {
			p.fail(ctx, req.DocumentID, err)
			return result, fmt.Errorf("storing content: %w", err)
		}
	}

	// The document row exists, so the graph path may start. It shares
	// no failure domain with the vector path below.
	var wg sync.WaitGroup
	var graphNodes int
	wg.Add(1)
	// The caller's context is propagated so an aborted request leaves
	// the graph batch unexecuted.
	graphTask := func() {
		defer wg.Done()
		graphNodes = p.processGraph(ctx, req.DocumentID, req.Title, req.Content)
	}
	if err := p.graphPool.Submit(graphTask); err != nil {
		p.logger.Warn("graph worker pool unavailable, extracting inline", "err", err)
		graphTask()
	}

	chunks := core.SplitContent(req.DocumentID, req.Content)
	result.ChunkCount = len(chunks)
	if err := p.documents.SetChunkCount(ctx, req.DocumentID, len(chunks)); err != nil {
		wg.Wait()
		p.fail(ctx, req.DocumentID, err)
		return result, fmt.Errorf("recording chunk count: %w", err)
	}

	if len(chunks) > 0 {
		if err := p.embedAndUpsert(ctx, doc, chunks); err != nil {
			wg.Wait()
			p.fail(ctx, req.DocumentID, err)
			return result, err
		}
	}

	if err := p.documents.SetStatus(ctx, req.DocumentID, core.StatusIndexed, ""); err != nil {
		wg.Wait()
		return result, fmt.Errorf("marking document indexed: %w", err)
	}

	wg.Wait()
	result.Success = true
	result.GraphNodeCount = graphNodes
	return result, nil
}

// embedAndUpsert runs the fatal part of the vector path: one batched
// embedding call followed by one idempotent index upsert.
func (p *Pipeline) embedAndUpsert(ctx context.Context, doc *core.Document, chunks []core.Chunk) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
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

	if err := p.index.Upsert(ctx, records); err != nil {
		return fmt.Errorf("upserting vectors: %w", err)
	}
	return nil
}

// processGraph runs the best-effort graph path and returns the number
// of entity nodes extracted. All failures degrade to zero.
func (p *Pipeline) processGraph(ctx context.Context, documentID, title, content string) int {
	graph, err := p.extractor.ExtractGraph(ctx, core.Excerpt(content))
	if err != nil {
		p.logger.Warn("graph extraction failed", "documentId", documentID, "err", err)
		graph = ai.EmptyGraph()
	}

	batch := BuildGraphBatch(documentID, title, graph)
	if err := p.graph.ApplyBatch(ctx, batch); err != nil {
		p.logger.Warn("graph batch persist failed", "documentId", documentID, "err", err)
		return 0
	}

	// The synthetic document node does not count as an extraction.
	return len(batch.Nodes) - 1
}

// fail marks the document errored with a human-readable reason. A
// status-write failure at this point is only logged.
func (p *Pipeline) fail(ctx context.Context, documentID string, cause error) {
	if err := p.documents.SetStatus(ctx, documentID, core.StatusError, cause.Error()); err != nil {
		p.logger.Error("error recording failure status", "documentId", documentID, "err", err)
	}
}

// Release releases the worker pool. The pipeline should not be used
// after calling Release.
func (p *Pipeline) Release() {
	if p.graphPool != nil {
		p.graphPool.Release()
	}
}
