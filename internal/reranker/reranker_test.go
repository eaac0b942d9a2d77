package reranker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// mockScorer implements driven.CrossEncoder for testing.
type mockScorer struct {
	scores   []float64
	err      error
	calls    int
	lastQry  string
	lastSize int
}

func (m *mockScorer) ScoreBatch(_ context.Context, query string, texts []string) ([]float64, error) {
	m.calls++
	m.lastQry = query
	m.lastSize = len(texts)
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

func (m *mockScorer) ModelName() string            { return "mock-cross-encoder" }
func (m *mockScorer) Ping(_ context.Context) error { return nil }
func (m *mockScorer) Close() error                 { return nil }

func candidates(contents ...string) []domain.CandidateResult {
	out := make([]domain.CandidateResult, len(contents))
	for i, c := range contents {
		out[i] = domain.CandidateResult{
			Content:         c,
			Metadata:        domain.Metadata{domain.MetaSource: "doc.txt"},
			SimilarityScore: 1.0 - float64(i)*0.1,
		}
	}
	return out
}

func TestRerank_ReordersByScore(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.2, 0.9, 0.5}}
	r := New(scorer)

	results, degraded := r.Rerank(context.Background(), "training", candidates("a", "b", "c"), 3)

	require.Len(t, results, 3)
	assert.False(t, degraded)
	assert.Equal(t, "b", results[0].Content)
	assert.Equal(t, "c", results[1].Content)
	assert.Equal(t, "a", results[2].Content)

	// Scores are attached and similarity scores preserved.
	require.NotNil(t, results[0].RerankScore)
	assert.InDelta(t, 0.9, *results[0].RerankScore, 1e-9)
	assert.InDelta(t, 0.9, results[0].SimilarityScore, 1e-9)
}

func TestRerank_SingleBatchCall(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.1, 0.2, 0.3, 0.4, 0.5}}
	r := New(scorer)

	_, _ = r.Rerank(context.Background(), "query", candidates("a", "b", "c", "d", "e"), 2)

	assert.Equal(t, 1, scorer.calls, "scorer must be invoked once per batch, not per item")
	assert.Equal(t, 5, scorer.lastSize)
	assert.Equal(t, "query", scorer.lastQry)
}

func TestRerank_TruncatesToTopK(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.1, 0.9, 0.5, 0.7}}
	r := New(scorer)

	results, degraded := r.Rerank(context.Background(), "q", candidates("a", "b", "c", "d"), 2)

	require.Len(t, results, 2)
	assert.False(t, degraded)
	assert.Equal(t, "b", results[0].Content)
	assert.Equal(t, "d", results[1].Content)
}

func TestRerank_NilScorerDegrades(t *testing.T) {
	r := New(nil)

	assert.False(t, r.Enabled())
	assert.Empty(t, r.ModelName())

	results, degraded := r.Rerank(context.Background(), "q", candidates("a", "b", "c"), 2)

	require.Len(t, results, 2)
	assert.True(t, degraded)
	// Original order, unannotated.
	assert.Equal(t, "a", results[0].Content)
	assert.Equal(t, "b", results[1].Content)
	assert.Nil(t, results[0].RerankScore)
}

func TestRerank_ScoringFailureDegrades(t *testing.T) {
	scorer := &mockScorer{err: errors.New("model exploded")}
	r := New(scorer)

	results, degraded := r.Rerank(context.Background(), "q", candidates("a", "b", "c"), 2)

	require.Len(t, results, 2)
	assert.True(t, degraded)
	assert.Equal(t, "a", results[0].Content)
	assert.Nil(t, results[0].RerankScore, "degraded results must not be partially annotated")
}

func TestRerank_ScoreCountMismatchDegrades(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.5}}
	r := New(scorer)

	results, degraded := r.Rerank(context.Background(), "q", candidates("a", "b", "c"), 3)

	require.Len(t, results, 3)
	assert.True(t, degraded)
	assert.Nil(t, results[0].RerankScore)
}

func TestRerank_TopKLargerThanCandidates(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.3, 0.6}}
	r := New(scorer)

	results, degraded := r.Rerank(context.Background(), "q", candidates("a", "b"), 10)

	require.Len(t, results, 2)
	assert.False(t, degraded)
	assert.Equal(t, "b", results[0].Content)
}

func TestRerank_StableForEqualScores(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.5, 0.5, 0.5}}
	r := New(scorer)

	results, _ := r.Rerank(context.Background(), "q", candidates("a", "b", "c"), 3)

	// Equal scores keep the index-provided order.
	assert.Equal(t, "a", results[0].Content)
	assert.Equal(t, "b", results[1].Content)
	assert.Equal(t, "c", results[2].Content)
}
