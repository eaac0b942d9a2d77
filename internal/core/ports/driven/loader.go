package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// LoadedPage is one unit of extracted text. TXT files load as a single
// page with number zero; PDF files load one page per physical page.
type LoadedPage struct {
	// Text is the extracted page text.
	Text string

	// Number is the 1-based page number, or 0 when the format has no
	// page structure.
	Number int
}

// DocumentLoader extracts raw text from a document file.
// Extraction happens before chunking; the chunker only ever sees text.
type DocumentLoader interface {
	// Load reads the file at path and extracts its text.
	Load(ctx context.Context, path string, fileType domain.FileType) ([]LoadedPage, error)
}
