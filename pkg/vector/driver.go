// Package vector provides the embedded-record model and the driver
// interface for vector storage backends.
package vector

import "context"

// Record is a stored chunk with its embedding and metadata.
type Record struct {
	// ID is the store-assigned unique identifier for the record.
	ID string `json:"id"`

	// Content is the chunk text the embedding was computed from.
	Content string `json:"content"`

	// Metadata carries the chunk's scalar attributes
	// (e.g. source URL, page number).
	Metadata map[string]any `json:"metadata,omitempty"`

	// Embedding is the vector representation of Content. All records in
	// one collection share the same dimension.
	Embedding []float32 `json:"embedding,omitempty"`
}

// QueryResult is a search hit with its similarity score.
type QueryResult struct {
	Record

	// Score is the similarity to the query vector; higher is more
	// similar. Drivers normalize backend distances to this convention.
	Score float32 `json:"score"`
}

// Driver handles storage and nearest-neighbor retrieval of records.
type Driver interface {
	// Add appends records to the collection. Records are immutable once
	// added; callers own ID assignment.
	Add(ctx context.Context, recs []Record) error

	// Query returns the topK records most similar to the given
	// embedding, best first.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Scroll returns up to limit records in insertion order, without
	// embeddings. Used for bounded duplicate scans.
	Scroll(ctx context.Context, limit int) ([]Record, error)

	// Count reports how many records the collection holds.
	Count(ctx context.Context) (int, error)

	// Delete removes records by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the driver.
	Close() error
}
