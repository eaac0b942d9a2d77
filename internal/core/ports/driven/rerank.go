package driven

import "context"

// CrossEncoder scores (query, text) pairs jointly for relevance.
//
// Unlike the bi-encoder EmbeddingService, which encodes query and
// document independently, a cross-encoder processes each pair together
// and is more accurate but far more expensive per item. It is therefore
// only run over a small candidate pool after vector search.
//
// This is an optional service - when nil, re-ranking is disabled and
// retrieval falls back to the vector store's ordering.
type CrossEncoder interface {
	// ScoreBatch returns one relevance score per text, scored jointly
	// against query. Scores are model-defined real numbers; higher is
	// more relevant. The whole batch is scored in a single call to
	// amortise model cost.
	ScoreBatch(ctx context.Context, query string, texts []string) ([]float64, error)

	// ModelName returns the name of the cross-encoder model.
	ModelName() string

	// Ping validates the scorer is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
