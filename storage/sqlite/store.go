// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quarrylabs/lodestone/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	content_preview TEXT NOT NULL DEFAULT '',
	metadata        TEXT NOT NULL DEFAULT '{}',
	created_at      TEXT NOT NULL,
	uploaded_at     TEXT NOT NULL,
	status          TEXT NOT NULL,
	chunk_count     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS graph_nodes (
	id      TEXT PRIMARY KEY,
	label   TEXT NOT NULL,
	type    TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS graph_edges (
	id       TEXT PRIMARY KEY,
	source   TEXT NOT NULL,
	target   TEXT NOT NULL,
	relation TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at DESC);
CREATE INDEX IF NOT EXISTS idx_graph_edges_source ON graph_edges(source);
`

// Store is the SQLite-backed relational store owning document metadata and
// the entity/relation graph. It hands out repository views over one shared
// connection pool.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and if needed creates) the SQLite database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lodestone.db")

	// WAL mode for concurrent readers alongside the ingestion writer
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewMemoryStore opens an in-memory database. Used by tests and the
// in-process demo commands; the single-connection limit keeps every
// statement on the same in-memory database.
func NewMemoryStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: ":memory:"}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: applying schema: %w", storage.ErrRelationalStore, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentRepository returns a storage.DocumentRepository backed by this store.
func (s *Store) DocumentRepository() storage.DocumentRepository {
	return &documentRepository{store: s}
}

// GraphRepository returns a storage.GraphRepository backed by this store.
func (s *Store) GraphRepository() storage.GraphRepository {
	return &graphRepository{store: s}
}
