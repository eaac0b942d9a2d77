package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors and are classified
// with errors.Is at the orchestrator boundary.
var (
	// ErrInvalidInput indicates malformed or invalid input, such as
	// empty document text or an empty query. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document file type.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrStorage indicates the vector store is unreachable or a
	// read/write failed. Callers must be able to distinguish this from
	// "no matches", so store adapters wrap failures with it rather
	// than returning empty results.
	ErrStorage = errors.New("vector store failure")

	// ErrEmbedding indicates the embedding service is unavailable or
	// returned malformed output (wrong dimension).
	ErrEmbedding = errors.New("embedding failure")
)
