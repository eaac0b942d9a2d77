// Package chunker splits document text into overlapping segments
// suitable for independent retrieval.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Strategy selects how document text is split.
type Strategy string

// Available chunking strategies.
const (
	// StrategyRecursive splits on a prioritised separator list,
	// falling through to finer separators only when a piece still
	// exceeds the size limit. Recommended for most documents.
	StrategyRecursive Strategy = "recursive"

	// StrategyToken measures size and overlap in tokens instead of
	// characters, using contiguous token windows.
	StrategyToken Strategy = "token"

	// StrategySemantic is recursive splitting with a relaxed separator
	// list. True embedding-based boundary detection is out of scope.
	StrategySemantic Strategy = "semantic"
)

// ParseStrategy validates a strategy string.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRecursive, StrategyToken, StrategySemantic:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: unknown chunking strategy %q", domain.ErrInvalidInput, s)
	}
}

// recursiveSeparators is the priority order for recursive splitting.
// Paragraph breaks first, then lines, sentences, clauses, words, and
// finally raw character boundaries as a last resort.
var recursiveSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// semanticSeparators is the relaxed list used by the semantic strategy.
var semanticSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// splitter turns text into ordered segments.
type splitter interface {
	split(text string) []string
}

// Chunker splits one logical document's text into overlapping chunks.
// For fixed input and parameters the output is identical on every call.
type Chunker struct {
	strategy Strategy
	size     int
	overlap  int
	splitter splitter
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size (characters, or tokens for the
// token strategy).
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithStrategy sets the splitting strategy.
func WithStrategy(strategy Strategy) Option {
	return func(c *Chunker) {
		if strategy != "" {
			c.strategy = strategy
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		strategy: StrategyRecursive,
		size:     DefaultChunkSize,
		overlap:  DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}

	switch c.strategy {
	case StrategyRecursive:
		c.splitter = &recursiveSplitter{size: c.size, overlap: c.overlap, separators: recursiveSeparators}
	case StrategySemantic:
		c.splitter = &recursiveSplitter{size: c.size, overlap: c.overlap, separators: semanticSeparators}
	case StrategyToken:
		ts, err := newTokenSplitter(c.size, c.overlap)
		if err != nil {
			return nil, fmt.Errorf("token splitter: %w", err)
		}
		c.splitter = ts
	default:
		return nil, fmt.Errorf("%w: unknown chunking strategy %q", domain.ErrInvalidInput, c.strategy)
	}

	return c, nil
}

// Strategy returns the configured strategy.
func (c *Chunker) Strategy() Strategy {
	return c.strategy
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured chunk overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into ordered chunks. Empty input produces no
// chunks and no error.
func (c *Chunker) Chunk(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	segments := c.splitter.split(text)

	chunks := make([]domain.Chunk, 0, len(segments))
	for i, seg := range segments {
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  seg,
			Position: i,
			Metadata: make(domain.Metadata),
		})
	}

	return chunks
}
