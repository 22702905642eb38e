// Package storage defines the persistence contracts of the pipeline and the
// ownership boundaries between the three stores.
//
// The relational store (storage/sqlite) exclusively owns document metadata
// and the entity/relation graph. The blob store (storage/badger) exclusively
// owns full document content. The vector index (vectorindex) exclusively
// owns embeddings. No store holds a copy of another's data, and no
// distributed transaction spans them: every mutating operation is designed
// to be idempotent so that retries and concurrent duplicate calls are safe.
package storage
