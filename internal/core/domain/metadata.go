package domain

import "fmt"

// Well-known metadata keys. Source is required on every indexed chunk;
// the rest are optional.
const (
	// MetaSource is the originating document identifier or path.
	MetaSource = "source"

	// MetaSessionID scopes a chunk to an upload session.
	MetaSessionID = "session_id"

	// MetaPage is the page number within the source document, when applicable.
	MetaPage = "page"
)

// Metadata is a typed mapping from string keys to scalar string values
// attached to chunks and index entries. Filters use exact key equality.
type Metadata map[string]string

// Validate checks that the minimal required key set is present.
// It is called at insert time rather than trusting callers blindly.
func (m Metadata) Validate() error {
	if m[MetaSource] == "" {
		return fmt.Errorf("%w: metadata missing required key %q", ErrInvalidInput, MetaSource)
	}
	return nil
}

// Merge returns a copy of m with entries from extra added.
// Keys already present in m win, so chunk-specific values such as the
// page number are never overwritten by ingest-level metadata.
func (m Metadata) Merge(extra Metadata) Metadata {
	merged := make(Metadata, len(m)+len(extra))
	for k, v := range extra {
		merged[k] = v
	}
	for k, v := range m {
		merged[k] = v
	}
	return merged
}

// Matches reports whether every key in filter is present in m with an
// exactly equal value. An empty or nil filter matches everything.
func (m Metadata) Matches(filter Metadata) bool {
	for k, want := range filter {
		got, ok := m[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
