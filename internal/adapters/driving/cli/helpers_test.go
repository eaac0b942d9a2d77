package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/reranker"
)

// fixedEmbedder returns the same unit vector for every text.
type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (fixedEmbedder) Dimensions() int              { return 2 }
func (fixedEmbedder) ModelName() string            { return "fixed" }
func (fixedEmbedder) Ping(_ context.Context) error { return nil }
func (fixedEmbedder) Close() error                 { return nil }

// setupTestServices wires a real pipeline over an in-memory store and
// injects it into the command tree. The returned cleanup restores the
// uninitialised state.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	ch, err := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(40))
	require.NoError(t, err)

	svc := services.NewRetrievalService(
		ch, fixedEmbedder{}, memory.NewStore(""), reranker.New(nil),
	)
	SetRetrievalService(svc)

	return func() {
		SetRetrievalService(nil)
		cfg = nil
		resetFlags()
	}
}

// resetFlags clears package-level flag state between tests.
func resetFlags() {
	searchLimit = 0
	searchJSON = false
	searchRerank = false
	searchSession = ""
	searchSource = ""
	ingestText = ""
	ingestSession = ""
	ingestSource = ""
	ingestJSON = false
	statsJSON = false
	deleteYes = false
	rootCmd.SetArgs(nil)
}
