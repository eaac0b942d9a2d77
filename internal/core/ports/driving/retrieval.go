package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// RetrievalService is the surface exposed to callers of the retrieval
// pipeline: the upload path, the agent tool layer, and the CLI.
type RetrievalService interface {
	// IngestDocument chunks, embeds and indexes pre-extracted document
	// text. Extra metadata (such as a session identifier) is merged
	// into every chunk without overwriting chunk-specific keys.
	IngestDocument(ctx context.Context, text string, fileType domain.FileType, extra domain.Metadata) domain.IngestResult

	// IngestFile loads a file from disk and ingests its text.
	IngestFile(ctx context.Context, path string, extra domain.Metadata) domain.IngestResult

	// Search embeds the query, retrieves candidates from the vector
	// store and optionally re-ranks them. An empty collection or a
	// filter matching nothing yields an empty slice, not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.CandidateResult, error)

	// Stats reports the collection state for observability.
	Stats(ctx context.Context) (domain.CollectionStats, error)

	// DeleteCollection removes every indexed entry.
	DeleteCollection(ctx context.Context) domain.DeleteResult
}
