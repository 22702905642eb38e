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

package lodestone

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/ai/openai"
	"github.com/quarrylabs/lodestone/graph"
	"github.com/quarrylabs/lodestone/ingestion"
	"github.com/quarrylabs/lodestone/search"
	"github.com/quarrylabs/lodestone/storage"
	"github.com/quarrylabs/lodestone/storage/badger"
	"github.com/quarrylabs/lodestone/storage/sqlite"
	"github.com/quarrylabs/lodestone/vectorindex"
	"github.com/quarrylabs/lodestone/vectorindex/qdrant"
)

// Database wires the relational store, blob store, vector index, and
// AI provider into one handle the pipeline, searcher, and graph viewer
// are built from.
type Database struct {
	store    *sqlite.Store
	blobs    storage.BlobStore
	index    vectorindex.Index
	provider ai.Provider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	qdrantConfig *qdrant.Config
	index        vectorindex.Index
	provider     ai.Provider
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithQdrantConfig sets the vector index configuration.
// Ignored when WithVectorIndex is also given.
func WithQdrantConfig(config *qdrant.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.qdrantConfig = config
	}
}

// WithVectorIndex substitutes the vector index, bypassing qdrant.
// Intended for tests.
func WithVectorIndex(index vectorindex.Index) DatabaseOption {
	return func(o *databaseOptions) {
		o.index = index
	}
}

// WithAIProvider substitutes the AI provider, bypassing the
// OpenAI-compatible services. Intended for tests.
func WithAIProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens the stores under dataDir and connects to the
// configured vector index and AI services.
func NewDatabase(ctx context.Context, dataDir string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig:     ai.DefaultConfig(),
		qdrantConfig: &qdrant.Config{},
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, err
	}

	blobs, err := badger.OpenStore(filepath.Join(dataDir, "blobs"), false)
	if err != nil {
		store.Close()
		return nil, err
	}

	index := options.index
	if index == nil {
		index, err = qdrant.NewIndex(ctx, options.qdrantConfig)
		if err != nil {
			blobs.Close()
			store.Close()
			return nil, err
		}
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			index.Close()
			blobs.Close()
			store.Close()
			return nil, err
		}
	}

	return &Database{
		store:    store,
		blobs:    blobs,
		index:    index,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.index.Close(); err != nil {
		db.logger.Error("error closing vector index", "err", err)
	}
	if err := db.blobs.Close(); err != nil {
		db.logger.Error("error closing blob store", "err", err)
		return err
	}
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing relational store", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.store.DocumentRepository()
}

func (db *Database) GraphRepository() storage.GraphRepository {
	return db.store.GraphRepository()
}

func (db *Database) BlobStore() storage.BlobStore {
	return db.blobs
}

func (db *Database) VectorIndex() vectorindex.Index {
	return db.index
}

func (db *Database) Provider() ai.Provider {
	return db.provider
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithBlobStore(db.blobs)}, opts...)
	return ingestion.NewPipeline(db.store.DocumentRepository(), db.store.GraphRepository(),
		db.index, db.provider, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.index, db.provider, opts...)
}

func (db *Database) NewGraphViewer() (*graph.Viewer, error) {
	return graph.NewViewer(db.store.GraphRepository())
}
