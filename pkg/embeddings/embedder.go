// Package embeddings defines the gateway to external embedding models.
package embeddings

import "context"

// Embedder converts text into fixed-dimension vector embeddings.
// Implementations call an external model service.
type Embedder interface {
	// Embed converts a batch of texts into one embedding per text,
	// order-preserving. Batching is deliberate: one gateway call for a
	// whole insert batch instead of one call per chunk.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
