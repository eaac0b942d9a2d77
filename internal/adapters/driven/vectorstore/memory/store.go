// Package memory provides an in-memory implementation of the vector
// store. It performs brute-force cosine search over unit vectors and
// is used by tests and the no-persistence mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultCollection is the collection name when none is configured.
const DefaultCollection = "documents"

// Store is an in-memory implementation of driven.VectorStore.
type Store struct {
	mu         sync.RWMutex
	collection string
	entries    []driven.Entry
}

// NewStore creates a new in-memory vector store.
func NewStore(collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{collection: collection}
}

// Insert appends all entries. Inserting the same entries twice
// duplicates them.
func (s *Store) Insert(_ context.Context, entries []driven.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		// Copy so later caller mutation cannot reach indexed state.
		e.Metadata = e.Metadata.Clone()
		e.Embedding = append([]float32(nil), e.Embedding...)
		s.entries = append(s.entries, e)
	}
	return nil
}

// Search returns up to k entries ranked by descending dot-product
// similarity, restricted to entries matching filter. Since all stored
// vectors are L2-normalised the dot product equals cosine similarity.
func (s *Store) Search(
	_ context.Context, query []float32, k int, filter domain.Metadata,
) ([]driven.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return []driven.Hit{}, nil
	}

	hits := make([]driven.Hit, 0, len(s.entries))
	for i := range s.entries {
		if !s.entries[i].Metadata.Matches(filter) {
			continue
		}
		hits = append(hits, driven.Hit{
			Content:  s.entries[i].Content,
			Metadata: s.entries[i].Metadata.Clone(),
			Score:    dot(query, s.entries[i].Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteCollection removes all entries.
func (s *Store) DeleteCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// Stats returns the entry count and collection name.
func (s *Store) Stats(_ context.Context) (int, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), s.collection, nil
}

// Close releases resources. No-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
