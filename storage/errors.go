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


package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record or object was not found.
	ErrNotFound = errors.New("record not found")

	// ErrRelationalStore indicates a relational store failure. Fatal when it
	// occurs on a document-metadata write; the graph batch recovers at the
	// orchestrator level.
	ErrRelationalStore = errors.New("relational store error")

	// ErrObjectStore indicates a blob store failure.
	ErrObjectStore = errors.New("object store error")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")
)
