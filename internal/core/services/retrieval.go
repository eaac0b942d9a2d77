package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
	"github.com/custodia-labs/recall-cli/internal/reranker"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultTopK is the number of final results when the caller does not
// specify one.
const DefaultTopK = 3

// DefaultOverFetchMultiplier is how many times more candidates are
// fetched from the vector store when re-ranking is enabled, so the
// re-ranker has enough of a pool to find the true top-k. A
// precision/latency tunable, not a constant of the algorithm.
const DefaultOverFetchMultiplier = 5

// sourceInline is the metadata source recorded for text ingested
// without a file path.
const sourceInline = "inline"

// RetrievalService sequences the chunker, the embedding service, the
// vector store and the re-ranker. It owns the ingest and query
// workflows end-to-end and is the only component that does.
//
// It is constructed once at process startup and passed explicitly to
// every caller; there is no implicit shared instance.
type RetrievalService struct {
	chunker   *chunker.Chunker
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	reranker  *reranker.Reranker
	loader    driven.DocumentLoader
	topK      int
	overFetch int
}

// RetrievalOption configures the retrieval service.
type RetrievalOption func(*RetrievalService)

// WithDefaultTopK sets the default number of final results.
func WithDefaultTopK(k int) RetrievalOption {
	return func(s *RetrievalService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithOverFetchMultiplier sets the over-fetch factor used when
// re-ranking is enabled.
func WithOverFetchMultiplier(m int) RetrievalOption {
	return func(s *RetrievalService) {
		if m > 0 {
			s.overFetch = m
		}
	}
}

// WithLoader sets the document loader used by IngestFile.
func WithLoader(loader driven.DocumentLoader) RetrievalOption {
	return func(s *RetrievalService) {
		s.loader = loader
	}
}

// NewRetrievalService creates a retrieval service. The re-ranker may
// wrap a nil scorer, in which case every query falls back to the vector
// store's ordering.
func NewRetrievalService(
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	rr *reranker.Reranker,
	opts ...RetrievalOption,
) *RetrievalService {
	s := &RetrievalService{
		chunker:   ch,
		embedder:  embedder,
		store:     store,
		reranker:  rr,
		topK:      DefaultTopK,
		overFetch: DefaultOverFetchMultiplier,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IngestDocument chunks, embeds and indexes pre-extracted document
// text. All failures are recovered into the structured result; no raw
// error crosses this boundary.
func (s *RetrievalService) IngestDocument(
	ctx context.Context, text string, fileType domain.FileType, extra domain.Metadata,
) domain.IngestResult {
	logger.Section("Document Ingestion")

	if _, err := domain.ParseFileType(string(fileType)); err != nil {
		return ingestError(fmt.Errorf("%w: %q", domain.ErrUnsupportedType, fileType))
	}

	doc := domain.NewDocument(sourceInline, fileType)
	doc.MarkProcessing()

	if strings.TrimSpace(text) == "" {
		return finishIngest(doc, ingestError(fmt.Errorf("%w: no content found in document", domain.ErrInvalidInput)))
	}

	chunks := s.chunker.Chunk(text)
	logger.Info("Split document into %d chunks using %s strategy", len(chunks), s.chunker.Strategy())

	return finishIngest(doc, s.ingestChunks(ctx, chunks, extra))
}

// IngestFile loads a file from disk and ingests its extracted text.
// PDF pages are chunked individually so each chunk carries its page
// number.
func (s *RetrievalService) IngestFile(
	ctx context.Context, path string, extra domain.Metadata,
) domain.IngestResult {
	logger.Section("File Ingestion")
	logger.Debug("Path: %s", path)

	if s.loader == nil {
		return ingestError(fmt.Errorf("%w: no document loader configured", domain.ErrInvalidInput))
	}

	fileType, err := fileTypeFromPath(path)
	if err != nil {
		return ingestError(err)
	}

	doc := domain.NewDocument(path, fileType)
	doc.MarkProcessing()

	pages, err := s.loader.Load(ctx, path, fileType)
	if err != nil {
		return finishIngest(doc, ingestError(fmt.Errorf("loading %s: %w", path, err)))
	}

	var chunks []domain.Chunk
	position := 0
	for _, page := range pages {
		for _, ch := range s.chunker.Chunk(page.Text) {
			ch.Position = position
			if page.Number > 0 {
				ch.Metadata[domain.MetaPage] = strconv.Itoa(page.Number)
			}
			chunks = append(chunks, ch)
			position++
		}
	}

	if len(chunks) == 0 {
		return finishIngest(doc, ingestError(fmt.Errorf("%w: no content found in document", domain.ErrInvalidInput)))
	}

	logger.Info("Split %s into %d chunks", filepath.Base(path), len(chunks))

	merged := domain.Metadata{domain.MetaSource: path}.Merge(extra)
	return finishIngest(doc, s.ingestChunks(ctx, chunks, merged))
}

// ingestChunks embeds the chunk batch and inserts it into the vector
// store. The insert is atomic from the caller's perspective: a failure
// partway is reported as failure, but already-written entries are not
// rolled back (recovery is delete-collection and re-ingest).
func (s *RetrievalService) ingestChunks(
	ctx context.Context, chunks []domain.Chunk, extra domain.Metadata,
) domain.IngestResult {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	// Single batch call to the embedding capability.
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return ingestError(fmt.Errorf("%w: %v", domain.ErrEmbedding, err))
	}
	if len(vectors) != len(chunks) {
		return ingestError(fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbedding, len(vectors), len(chunks)))
	}

	dims := s.embedder.Dimensions()
	entries := make([]driven.Entry, len(chunks))
	for i := range chunks {
		if dims > 0 && len(vectors[i]) != dims {
			return ingestError(fmt.Errorf("%w: vector %d has dimension %d, want %d", domain.ErrEmbedding, i, len(vectors[i]), dims))
		}

		// Later chunk-specific keys (page number) win over the
		// ingest-level metadata merged in here.
		meta := chunks[i].Metadata.Merge(extra)
		if meta[domain.MetaSource] == "" {
			meta[domain.MetaSource] = sourceInline
		}
		if err := meta.Validate(); err != nil {
			return ingestError(err)
		}

		entries[i] = driven.Entry{
			ID:        chunks[i].ID,
			Embedding: vectors[i],
			Content:   chunks[i].Content,
			Metadata:  meta,
		}
	}

	if err := s.store.Insert(ctx, entries); err != nil {
		return ingestError(fmt.Errorf("indexing chunks: %w", err))
	}

	logger.Info("Ingested %d chunks", len(entries))

	return domain.IngestResult{
		Status: domain.IngestSuccess,
		Chunks: len(entries),
	}
}

// Search embeds the query, over-fetches candidates from the vector
// store and optionally re-ranks them down to k results.
func (s *RetrievalService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.CandidateResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	k := opts.K
	if k <= 0 {
		k = s.topK
	}

	rerankEnabled := opts.UseReranking && s.reranker != nil && s.reranker.Enabled()

	retrievalK := k
	if opts.UseReranking {
		// Over-fetch so the re-ranker has a pool to select from. The
		// pool is sized even when the scorer later degrades, keeping
		// the store interaction independent of scorer health.
		retrievalK = k * s.overFetch
	}
	retrievalK = s.clampToCollection(ctx, retrievalK, k)

	logger.Debug("k=%d retrieval_k=%d rerank=%t filter=%v", k, retrievalK, rerankEnabled, opts.Filter)

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrEmbedding, err)
	}

	hits, err := s.store.Search(ctx, queryVec, retrievalK, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("Vector search returned %d candidates", len(hits))

	if len(hits) == 0 {
		// No matches is not an error; storage failures surfaced above.
		return []domain.CandidateResult{}, nil
	}

	candidates := make([]domain.CandidateResult, len(hits))
	for i, hit := range hits {
		candidates[i] = domain.CandidateResult{
			Content:         hit.Content,
			Metadata:        hit.Metadata,
			SimilarityScore: hit.Score,
		}
	}

	if rerankEnabled {
		results, degraded := s.reranker.Rerank(ctx, query, candidates, k)
		if degraded {
			logger.Warn("Re-ranking degraded to pass-through for this query")
		} else {
			logger.Info("Re-ranked %d candidates to top %d", len(candidates), len(results))
		}
		return results, nil
	}

	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k], nil
}

// Stats reports the collection state. Observability only.
func (s *RetrievalService) Stats(ctx context.Context) (domain.CollectionStats, error) {
	count, collection, err := s.store.Stats(ctx)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("collection stats: %w", err)
	}

	return domain.CollectionStats{
		CollectionName: collection,
		TotalChunks:    count,
		EmbeddingModel: s.embedder.ModelName(),
		ChunkSize:      s.chunker.Size(),
		ChunkOverlap:   s.chunker.Overlap(),
	}, nil
}

// DeleteCollection removes every indexed entry.
func (s *RetrievalService) DeleteCollection(ctx context.Context) domain.DeleteResult {
	if err := s.store.DeleteCollection(ctx); err != nil {
		logger.Warn("Collection delete failed: %v", err)
		return domain.DeleteResult{Status: domain.IngestError, Message: err.Error()}
	}

	logger.Info("Collection deleted")
	return domain.DeleteResult{Status: domain.IngestSuccess, Message: "collection deleted"}
}

// clampToCollection caps retrievalK at the number of indexed entries,
// so small collections are not asked for more candidates than exist.
// The floor stays at k. Stats failures leave retrievalK unclamped;
// the subsequent search will surface any real storage error.
func (s *RetrievalService) clampToCollection(ctx context.Context, retrievalK, k int) int {
	count, _, err := s.store.Stats(ctx)
	if err != nil || count <= 0 {
		return retrievalK
	}
	if retrievalK > count {
		clamped := count
		if clamped < k {
			clamped = k
		}
		logger.Debug("Clamped retrieval_k from %d to %d (collection size)", retrievalK, clamped)
		return clamped
	}
	return retrievalK
}

// finishIngest settles the document status from the ingest outcome and
// stamps the document ID onto the result. The status transition happens
// exactly once per attempt.
func finishIngest(doc *domain.Document, res domain.IngestResult) domain.IngestResult {
	doc.Finish(res.Status == domain.IngestSuccess)
	logger.Debug("Document %s: %s", doc.ID, doc.Status)
	res.DocumentID = doc.ID
	return res
}

// ingestError recovers an error into a structured ingest result.
func ingestError(err error) domain.IngestResult {
	logger.Warn("Ingest failed: %v", err)
	return domain.IngestResult{
		Status:  domain.IngestError,
		Message: err.Error(),
	}
}

// fileTypeFromPath derives the declared file type from the extension.
func fileTypeFromPath(path string) (domain.FileType, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	ft, err := domain.ParseFileType(ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
	return ft, nil
}
