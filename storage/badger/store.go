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

// Package badger provides a BadgerDB-backed blob store for raw document
// content.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/quarrylabs/lodestone/storage"
)

// Store wraps a BadgerDB instance and implements storage.BlobStore.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.BlobStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a BadgerDB blob store at the specified path.
// Creates the directory if it doesn't exist. With inMemory set the
// path is ignored and nothing is persisted.
func OpenStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening blob store: %w", storage.ErrObjectStore, err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "blobstore"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx executes fn within a BadgerDB transaction.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if s.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	if isWrite {
		return s.db.Update(fn)
	}
	return s.db.View(fn)
}

// envelope is the stored representation of an object. Content is
// base64-encoded by encoding/json.
type envelope struct {
	Metadata map[string]string `json:"metadata,omitempty"`
	Content  []byte            `json:"content"`
}

// Put stores content and metadata under the given key, replacing any
// existing object.
func (s *Store) Put(ctx context.Context, key string, content []byte, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(envelope{Metadata: metadata, Content: content})
	if err != nil {
		return fmt.Errorf("%w: encoding %q: %w", storage.ErrObjectStore, key, err)
	}
	err = s.withTx(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), value)
	}, true)
	if err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		return fmt.Errorf("%w: putting %q: %w", storage.ErrObjectStore, key, err)
	}
	return err
}

// Get retrieves the content and metadata stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var env envelope
	err := s.withTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &env)
		})
	}, false)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil, storage.ErrNotFound
	}
	if errors.Is(err, storage.ErrStorageClosed) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: getting %q: %w", storage.ErrObjectStore, key, err)
	}
	return env.Content, env.Metadata, nil
}

// Delete removes the object stored under key. Deleting an absent key
// is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.withTx(func(tx *badger.Txn) error {
		return tx.Delete([]byte(key))
	}, true)
	if err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		return fmt.Errorf("%w: deleting %q: %w", storage.ErrObjectStore, key, err)
	}
	return err
}

// List returns info for every object whose key starts with prefix,
// in key order.
func (s *Store) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var objects []storage.ObjectInfo
	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			objects = append(objects, storage.ObjectInfo{
				Key:  string(item.KeyCopy(nil)),
				Size: item.ValueSize(),
			})
		}
		return nil
	}, false)
	if err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		return nil, fmt.Errorf("%w: listing %q: %w", storage.ErrObjectStore, prefix, err)
	}
	return objects, err
}
