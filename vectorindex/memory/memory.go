package memory

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/quarrylabs/lodestone/vectorindex"
)

// Index is a brute-force in-memory vector index using cosine similarity.
// It implements the same idempotent upsert-by-id contract as the production
// index, which makes it the reference implementation for tests.
type Index struct {
	mu      sync.RWMutex
	records map[string]vectorindex.Record

	// FailUpsert and FailQuery make the next calls return ErrUnavailable.
	// Used by tests to simulate an unreachable index service.
	FailUpsert bool
	FailQuery  bool
}

var _ vectorindex.Index = (*Index)(nil)

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{records: make(map[string]vectorindex.Record)}
}

// Upsert replaces any existing record sharing an id. The whole batch is
// applied atomically: a failure leaves the index untouched.
func (i *Index) Upsert(ctx context.Context, records []vectorindex.Record) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.FailUpsert {
		return fmt.Errorf("%w: simulated failure", vectorindex.ErrUnavailable)
	}

	for _, record := range records {
		clone := record
		clone.Payload = maps.Clone(record.Payload)
		clone.Vector = slices.Clone(record.Vector)
		i.records[record.ID] = clone
	}
	return nil
}

// Query returns up to topK records ranked by descending cosine similarity.
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]vectorindex.Match, error) {
	if topK <= 0 {
		return nil, vectorindex.ErrInvalidTopK
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.FailQuery {
		return nil, fmt.Errorf("%w: simulated failure", vectorindex.ErrUnavailable)
	}

	matches := make([]vectorindex.Match, 0, len(i.records))
	for _, record := range i.records {
		matches = append(matches, vectorindex.Match{
			Record: record,
			Score:  cosine(vector, record.Vector),
		})
	}

	slices.SortFunc(matches, func(a, b vectorindex.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Close is a no-op for the in-memory index.
func (i *Index) Close() error {
	return nil
}

// Len returns the number of stored records. Used by tests to assert
// idempotency of re-ingestion.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

// cosine computes cosine similarity between two vectors.
func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB)))
}
