package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileType identifies the declared format of an ingested document.
type FileType string

// Supported document file types.
const (
	FileTypePDF FileType = "pdf"
	FileTypeTXT FileType = "txt"
)

// ParseFileType validates and normalises a file type string.
func ParseFileType(s string) (FileType, error) {
	switch FileType(s) {
	case FileTypePDF:
		return FileTypePDF, nil
	case FileTypeTXT:
		return FileTypeTXT, nil
	default:
		return "", ErrUnsupportedType
	}
}

// DocumentStatus tracks a document through the ingestion pipeline.
// Status moves forward exactly once per ingestion attempt
// (processing -> processed or failed) and is never reverted.
type DocumentStatus string

// Document lifecycle states.
const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusProcessed  DocumentStatus = "processed"
	StatusFailed     DocumentStatus = "failed"
)

// Document represents a raw ingested source file.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Path is the location the document was loaded from.
	Path string

	// Type is the declared file format.
	Type FileType

	// Status is the current ingestion state.
	Status DocumentStatus

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}

// NewDocument creates a document in the uploaded state.
func NewDocument(path string, fileType FileType) *Document {
	return &Document{
		ID:        uuid.New().String(),
		Path:      path,
		Type:      fileType,
		Status:    StatusUploaded,
		CreatedAt: time.Now().UTC(),
	}
}

// MarkProcessing moves the document into the processing state.
func (d *Document) MarkProcessing() {
	d.Status = StatusProcessing
}

// Finish records the outcome of the ingestion attempt. A document that
// already reached a terminal state keeps it.
func (d *Document) Finish(succeeded bool) {
	if d.Status == StatusProcessed || d.Status == StatusFailed {
		return
	}
	if succeeded {
		d.Status = StatusProcessed
		return
	}
	d.Status = StatusFailed
}

// Chunk is a bounded text segment derived from a source document.
// It is the unit of retrieval. Chunks are immutable once created;
// a document's chunk set is only ever replaced whole by re-ingestion.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the source document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata Metadata
}
