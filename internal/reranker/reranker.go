// Package reranker reorders retrieval candidates with a cross-encoder.
//
// The vector store's bi-encoder similarity is fast but approximate; the
// cross-encoder scores each (query, candidate) pair jointly and is more
// accurate at a much higher per-item cost. The re-ranker is therefore
// only run over the over-fetched candidate pool, never the whole
// collection.
package reranker

import (
	"context"
	"sort"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Reranker scores candidates against a query and reorders them.
// The scorer is optional; without one every call degrades to a
// pass-through truncation.
type Reranker struct {
	scorer driven.CrossEncoder
}

// New creates a re-ranker backed by the given scorer. A nil scorer is
// allowed and permanently disables re-ranking.
func New(scorer driven.CrossEncoder) *Reranker {
	return &Reranker{scorer: scorer}
}

// Enabled reports whether a scorer is configured.
func (r *Reranker) Enabled() bool {
	return r.scorer != nil
}

// ModelName returns the scorer's model name, or empty when disabled.
func (r *Reranker) ModelName() string {
	if r.scorer == nil {
		return ""
	}
	return r.scorer.ModelName()
}

// Rerank scores every candidate against the query in one batch call,
// sorts descending by score and truncates to topK. Candidate order is
// preserved when building the batch so scores line up by index.
//
// When the scorer is unavailable or the batch call fails, the call
// degrades to returning the first topK candidates in their original
// order, unannotated. The degraded return value makes that observable
// to callers, since degradation silently changes result quality.
// A scoring failure never fails the call and never partially reranks.
func (r *Reranker) Rerank(
	ctx context.Context, query string, candidates []domain.CandidateResult, topK int,
) (results []domain.CandidateResult, degraded bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	if topK <= 0 || topK > len(candidates) {
		topK = len(candidates)
	}

	if r.scorer == nil {
		logger.Warn("Re-ranker unavailable, returning original order")
		return truncate(candidates, topK), true
	}

	texts := make([]string, len(candidates))
	for i := range candidates {
		texts[i] = candidates[i].Content
	}

	logger.Debug("Re-ranking %d candidates with %s", len(candidates), r.scorer.ModelName())

	scores, err := r.scorer.ScoreBatch(ctx, query, texts)
	if err != nil || len(scores) != len(candidates) {
		logger.Warn("Re-rank scoring failed (%v), returning original order", err)
		return truncate(candidates, topK), true
	}

	reranked := make([]domain.CandidateResult, len(candidates))
	for i := range candidates {
		reranked[i] = candidates[i]
		score := scores[i]
		reranked[i].RerankScore = &score
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return *reranked[i].RerankScore > *reranked[j].RerankScore
	})

	logger.Debug("Re-ranking complete, top score: %.3f", *reranked[0].RerankScore)

	return reranked[:topK], false
}

// truncate copies the first k candidates without annotating them.
func truncate(candidates []domain.CandidateResult, k int) []domain.CandidateResult {
	out := make([]domain.CandidateResult, k)
	copy(out, candidates[:k])
	return out
}
