package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// Entry is the persisted unit of the vector store: an embedded chunk
// together with its text and metadata. Entries are added at ingestion
// time and never mutated.
type Entry struct {
	// ID is the chunk identifier.
	ID string

	// Embedding is the L2-normalised chunk vector.
	Embedding []float32

	// Content is the chunk text.
	Content string

	// Metadata is the chunk metadata. Must contain the required key
	// set (validated at insert time).
	Metadata domain.Metadata
}

// Hit is a similarity search result.
type Hit struct {
	// Content is the matched chunk text.
	Content string

	// Metadata is the matched chunk metadata.
	Metadata domain.Metadata

	// Score is the raw cosine similarity to the query vector.
	Score float64
}

// VectorStore provides durable storage and nearest-neighbour retrieval
// over embedded chunks, with exact-match metadata filtering.
//
// Concurrency: implementations must be structurally safe under
// interleaved inserts and searches, but a concurrent search may observe
// a partially-inserted batch. Callers tolerate this relaxed consistency;
// chunks from one document are not individually meaningful without the
// others in typical retrieval.
//
// Failure: storage errors are wrapped with domain.ErrStorage so callers
// can distinguish "no matches" from "store unavailable".
type VectorStore interface {
	// Insert appends all entries to the collection. Calling twice with
	// the same entries duplicates them (additive, not upsert). For
	// durable implementations the entries are persisted before Insert
	// returns.
	Insert(ctx context.Context, entries []Entry) error

	// Search returns up to k entries ranked by descending similarity
	// to the query vector, restricted to entries whose metadata
	// matches filter exactly when filter is non-empty. A filter that
	// matches nothing yields an empty slice and a nil error.
	Search(ctx context.Context, query []float32, k int, filter domain.Metadata) ([]Hit, error)

	// DeleteCollection removes all entries. Subsequent operations
	// start from an empty collection.
	DeleteCollection(ctx context.Context) error

	// Stats returns the entry count and collection name. It never
	// mutates state.
	Stats(ctx context.Context) (count int, collection string, err error)

	// Close releases resources.
	Close() error
}
