package mcp

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of
// driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.CandidateResult
	stats   domain.CollectionStats
	ingest  domain.IngestResult
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
	lastText  string
	lastPath  string
	lastExtra domain.Metadata
}

var _ driving.RetrievalService = (*mockRetrievalService)(nil)

func (m *mockRetrievalService) IngestDocument(
	_ context.Context, text string, _ domain.FileType, extra domain.Metadata,
) domain.IngestResult {
	m.lastText = text
	m.lastExtra = extra
	return m.ingest
}

func (m *mockRetrievalService) IngestFile(
	_ context.Context, path string, extra domain.Metadata,
) domain.IngestResult {
	m.lastPath = path
	m.lastExtra = extra
	return m.ingest
}

func (m *mockRetrievalService) Search(
	_ context.Context, query string, opts domain.SearchOptions,
) ([]domain.CandidateResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockRetrievalService) Stats(_ context.Context) (domain.CollectionStats, error) {
	return m.stats, m.err
}

func (m *mockRetrievalService) DeleteCollection(_ context.Context) domain.DeleteResult {
	return domain.DeleteResult{Status: domain.IngestSuccess}
}
