package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), "")
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func entry(id, content string, vec []float32, meta domain.Metadata) driven.Entry {
	if meta == nil {
		meta = domain.Metadata{domain.MetaSource: "a.txt"}
	}
	return driven.Entry{ID: id, Embedding: vec, Content: content, Metadata: meta}
}

func TestStore_InsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Insert(ctx, []driven.Entry{
		entry("1", "about cats", []float32{1, 0}, nil),
		entry("2", "about dogs", []float32{0, 1}, nil),
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "about cats", hits[0].Content)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.0, hits[1].Score, 1e-6)
	assert.Equal(t, "a.txt", hits[0].Metadata[domain.MetaSource])
}

func TestStore_SearchTruncatesToK(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	var entries []driven.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, entry(string(rune('a'+i)), "text", []float32{1, 0}, nil))
	}
	require.NoError(t, store.Insert(ctx, entries))

	hits, err := store.Search(ctx, []float32{1, 0}, 4, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

func TestStore_FilterStrictness(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Insert(ctx, []driven.Entry{
		entry("1", "session A text", []float32{1, 0},
			domain.Metadata{domain.MetaSource: "a", domain.MetaSessionID: "A"}),
		entry("2", "session B text", []float32{1, 0},
			domain.Metadata{domain.MetaSource: "b", domain.MetaSessionID: "B"}),
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 10, domain.Metadata{domain.MetaSessionID: "A"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "session A text", hits[0].Content)

	// A filter matching nothing yields empty results, not an error.
	hits, err = store.Search(ctx, []float32{1, 0}, 10, domain.Metadata{domain.MetaSessionID: "C"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_InsertIsAdditive(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	batch := []driven.Entry{
		entry("1", "text", []float32{1, 0}, nil),
	}

	// Re-inserting the identical batch duplicates it; rows are never
	// updated in place.
	require.NoError(t, store.Insert(ctx, batch))
	require.NoError(t, store.Insert(ctx, batch))

	count, collection, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, DefaultCollection, collection)

	hits, err := store.Search(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestStore_DeleteCollection(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Insert(ctx, []driven.Entry{
		entry("1", "text", []float32{1, 0}, nil),
	}))
	require.NoError(t, store.DeleteCollection(ctx))

	count, _, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir, "docs")
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, []driven.Entry{
		entry("1", "durable text", []float32{0.6, 0.8},
			domain.Metadata{domain.MetaSource: "a.txt", domain.MetaPage: "3"}),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir, "docs")
	require.NoError(t, err)
	defer reopened.Close()

	hits, err := reopened.Search(ctx, []float32{0.6, 0.8}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "durable text", hits[0].Content)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "3", hits[0].Metadata[domain.MetaPage])
}

func TestStore_CollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewStore(dir, "first")
	require.NoError(t, err)
	defer first.Close()
	second, err := NewStore(dir, "second")
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.Insert(ctx, []driven.Entry{
		entry("1", "text", []float32{1, 0}, nil),
	}))

	count, _, err := second.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	hits, err := second.Search(ctx, []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_EmptyCollectionSearch(t *testing.T) {
	store := setupTestStore(t)

	hits, err := store.Search(context.Background(), []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_FailuresWrapStorageError(t *testing.T) {
	ctx := context.Background()

	store, err := NewStore(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, []driven.Entry{
		entry("1", "text", []float32{1, 0}, nil),
	}))
	require.NoError(t, store.Close())

	// Every operation against the closed store reports a storage
	// failure, never an empty result.
	_, err = store.Search(ctx, []float32{1, 0}, 5, nil)
	assert.ErrorIs(t, err, domain.ErrStorage)

	_, _, err = store.Stats(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)

	err = store.Insert(ctx, []driven.Entry{
		entry("2", "more text", []float32{0, 1}, nil),
	})
	assert.ErrorIs(t, err, domain.ErrStorage)

	err = store.DeleteCollection(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
