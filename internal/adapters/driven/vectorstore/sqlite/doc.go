// Package sqlite provides the durable SQLite-backed vector store.
//
// The store keeps every indexed chunk in a single chunks table:
// content as text, the embedding as a little-endian float32 blob and
// the metadata as a JSON object. Schema changes are applied through
// embedded, numbered migrations at open time.
package sqlite
