// Package file provides a document loader for local TXT and PDF files.
package file

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader extracts text from files on the local filesystem.
type Loader struct{}

// NewLoader creates a new file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path and extracts its text. PDF files come
// back as one page per PDF page so chunk metadata can carry page
// numbers; plain text files come back as a single unnumbered page.
func (l *Loader) Load(ctx context.Context, path string, fileType domain.FileType) ([]driven.LoadedPage, error) {
	switch fileType {
	case domain.FileTypeTXT:
		return loadText(path)
	case domain.FileTypePDF:
		return loadPDF(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, fileType)
	}
}

func loadText(path string) ([]driven.LoadedPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return []driven.LoadedPage{{Text: string(data)}}, nil
}

func loadPDF(ctx context.Context, path string) ([]driven.LoadedPage, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var pages []driven.LoadedPage
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the whole
			// document.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, driven.LoadedPage{Text: text, Number: i})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no text extracted from %s", domain.ErrInvalidInput, path)
	}
	return pages, nil
}
