package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// SearchInput is the input schema for the rag_search tool.
type SearchInput struct {
	Query        string `json:"query" jsonschema:"the question or phrase to retrieve context for"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 3)"`
	SessionID    string `json:"session_id,omitempty" jsonschema:"restrict results to documents ingested under this session"`
	Source       string `json:"source,omitempty" jsonschema:"restrict results to documents from this source"`
	UseReranking bool   `json:"use_reranking,omitempty" jsonschema:"re-rank candidates with the cross-encoder for higher precision"`
}

// SearchOutput is the output schema for the rag_search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved passage.
type SearchResultOutput struct {
	Content         string            `json:"content"`
	Source          string            `json:"source"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	SimilarityScore float64           `json:"similarity_score"`
	RerankScore     *float64          `json:"rerank_score,omitempty"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Text      string `json:"text,omitempty" jsonschema:"raw document text to index; mutually exclusive with path"`
	Path      string `json:"path,omitempty" jsonschema:"path to a local txt or pdf file to index"`
	FileType  string `json:"file_type,omitempty" jsonschema:"declared type of inline text, txt or pdf (default txt)"`
	Source    string `json:"source,omitempty" jsonschema:"source label recorded with every chunk"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session to scope the document to"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	Status     string `json:"status"`
	DocumentID string `json:"document_id,omitempty"`
	Chunks     int    `json:"chunks"`
	Message    string `json:"message,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rag_search",
		Description: "Retrieve the most relevant indexed passages for a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Chunk, embed and index a document so it becomes searchable",
	}, s.handleIngest)
}

// handleSearch handles the rag_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filter := domain.Metadata{}
	if input.SessionID != "" {
		filter[domain.MetaSessionID] = input.SessionID
	}
	if input.Source != "" {
		filter[domain.MetaSource] = input.Source
	}

	opts := domain.SearchOptions{
		K:            input.Limit,
		UseReranking: input.UseReranking,
		Filter:       filter,
	}

	results, err := s.ports.Retrieval.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			Content:         results[i].Content,
			Source:          results[i].Metadata[domain.MetaSource],
			Metadata:        results[i].Metadata,
			SimilarityScore: results[i].SimilarityScore,
			RerankScore:     results[i].RerankScore,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Text == "" && input.Path == "" {
		return nil, IngestOutput{}, errors.New("either text or path is required")
	}
	if input.Text != "" && input.Path != "" {
		return nil, IngestOutput{}, errors.New("text and path are mutually exclusive")
	}

	extra := domain.Metadata{}
	if input.Source != "" {
		extra[domain.MetaSource] = input.Source
	}
	if input.SessionID != "" {
		extra[domain.MetaSessionID] = input.SessionID
	}

	var result domain.IngestResult
	if input.Path != "" {
		result = s.ports.Retrieval.IngestFile(ctx, input.Path, extra)
	} else {
		fileType := input.FileType
		if fileType == "" {
			fileType = string(domain.FileTypeTXT)
		}
		result = s.ports.Retrieval.IngestDocument(ctx, input.Text, domain.FileType(fileType), extra)
	}

	return nil, IngestOutput{
		Status:     string(result.Status),
		DocumentID: result.DocumentID,
		Chunks:     result.Chunks,
		Message:    result.Message,
	}, nil
}
