package domain

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// K is the number of final results to return. Zero means the
	// configured default.
	K int

	// UseReranking enables cross-encoder re-ranking of candidates.
	UseReranking bool

	// Filter restricts results to entries whose metadata matches
	// every key exactly.
	Filter Metadata
}

// CandidateResult is a transient, per-query retrieval hit.
// It exists only for the duration of one retrieval call and is
// never persisted.
type CandidateResult struct {
	// Content is the chunk text.
	Content string `json:"content"`

	// Metadata is the chunk metadata.
	Metadata Metadata `json:"metadata"`

	// SimilarityScore is the raw cosine similarity from the vector
	// store. It is not normalised to [0,1]; callers use it for
	// diagnostics only, never for arithmetic blending.
	SimilarityScore float64 `json:"similarity_score"`

	// RerankScore is the cross-encoder relevance score, set only when
	// re-ranking ran. The scale is model-defined.
	RerankScore *float64 `json:"rerank_score,omitempty"`
}

// IngestStatus is the outcome of an ingestion attempt.
type IngestStatus string

// Ingest outcomes.
const (
	IngestSuccess IngestStatus = "success"
	IngestError   IngestStatus = "error"
)

// IngestResult reports the outcome of a document ingestion.
type IngestResult struct {
	// Status is success or error.
	Status IngestStatus `json:"status"`

	// DocumentID identifies the ingested document. Empty when the
	// request was rejected before a document was created.
	DocumentID string `json:"document_id,omitempty"`

	// Chunks is the number of chunks written to the index.
	Chunks int `json:"chunks"`

	// Message is a human-readable description, set on error.
	Message string `json:"message,omitempty"`
}

// DeleteResult reports the outcome of a collection deletion.
type DeleteResult struct {
	Status  IngestStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// CollectionStats describes the current state of the vector collection.
// Observability only; producing it never mutates state.
type CollectionStats struct {
	CollectionName string `json:"collection_name"`
	TotalChunks    int    `json:"total_documents"`
	EmbeddingModel string `json:"embedding_model"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
}
