// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Maps text to fixed-dimension normalised vectors.
//   - VectorStore: Durable storage and similarity search over embedded chunks.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CrossEncoder: Joint (query, text) relevance scoring. Without it,
//     re-ranking is disabled and retrieval returns the store's ordering.
//   - DocumentLoader: File text extraction. Only needed for file-path
//     ingestion; callers may also pass pre-extracted text directly.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
