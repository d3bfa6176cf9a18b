// Package index composes an embedding gateway and a vector driver into
// the ingestion and search surface of the retrieval pipeline.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/0xdany/RAG-PDF-URLs/pkg/document"
	"github.com/0xdany/RAG-PDF-URLs/pkg/embeddings"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
)

// DefaultDuplicateScanLimit bounds how many existing records a
// duplicate scan fetches when the caller does not say otherwise.
const DefaultDuplicateScanLimit = 1000

// InsertOptions controls duplicate handling during Insert.
type InsertOptions struct {
	// AllowDuplicates appends every chunk unconditionally when true.
	AllowDuplicates bool

	// DuplicateScanLimit caps how many existing records are fetched to
	// build the deduplication set. Values <= 0 use
	// DefaultDuplicateScanLimit.
	//
	// Dedup is bounded-recall on purpose: chunks are only compared
	// against the scanned subset, not the whole store, to avoid loading
	// unbounded state into memory. It is an approximation, not a global
	// uniqueness guarantee.
	DuplicateScanLimit int
}

// Config holds configuration for an Index.
type Config struct {
	// Dimensions fixes the embedding dimension up front. When zero, the
	// dimension is established by the first insert or search.
	Dimensions uint
}

// Index is the write and query surface over an embedder and a vector
// driver. Inserts embed whole batches in a single gateway call.
//
// The duplicate-scan-then-insert sequence is not atomic: two concurrent
// inserts of the same chunk can both pass the scan and both land.
// Callers needing strict uniqueness must serialize writers.
type Index struct {
	embedder embeddings.Embedder
	driver   vector.Driver
	logger   *slog.Logger

	dimension int
}

// New creates an Index over the given embedder and driver.
func New(embedder embeddings.Embedder, driver vector.Driver, cfg Config, logger *slog.Logger) *Index {
	return &Index{
		embedder:  embedder,
		driver:    driver,
		logger:    logger,
		dimension: int(cfg.Dimensions),
	}
}

// Insert embeds chunks and appends them to the store, assigning each a
// fresh identifier. Returns how many records were actually inserted,
// which is fewer than len(chunks) when duplicates are filtered.
// Embedding failures abort the whole batch; nothing is silently
// skipped.
func (ix *Index) Insert(ctx context.Context, chunks []document.Document, opts InsertOptions) (int, error) {
	candidates := chunks
	if !opts.AllowDuplicates {
		var err error
		candidates, err = ix.filterDuplicates(ctx, chunks, opts.DuplicateScanLimit)
		if err != nil {
			return 0, err
		}
	}

	if len(candidates) == 0 {
		ix.logger.Debug("insert batch empty after duplicate filtering",
			"submitted", len(chunks),
		)
		return 0, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Content
	}

	// One gateway call for the whole batch.
	vecs, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding insert batch: %w", err)
	}
	if len(vecs) != len(candidates) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks",
			vector.ErrEmbedding, len(vecs), len(candidates))
	}

	recs := make([]vector.Record, len(candidates))
	for i, c := range candidates {
		if err := ix.checkDimension(vecs[i]); err != nil {
			return 0, err
		}
		recs[i] = vector.Record{
			ID:        uuid.NewString(),
			Content:   c.Content,
			Metadata:  c.Metadata,
			Embedding: vecs[i],
		}
	}

	if err := ix.driver.Add(ctx, recs); err != nil {
		return 0, fmt.Errorf("adding records: %w", err)
	}

	ix.logger.Debug("inserted records",
		"submitted", len(chunks),
		"inserted", len(recs),
	)
	return len(recs), nil
}

// Search embeds the query once and returns the k most similar records,
// best first. An empty query string is valid; k must be positive.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]vector.QueryResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	vecs, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: got %d embeddings for one query", vector.ErrEmbedding, len(vecs))
	}
	if err := ix.checkDimension(vecs[0]); err != nil {
		return nil, err
	}

	results, err := ix.driver.Query(ctx, vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	ix.logger.Debug("search complete", "k", k, "results", len(results))
	return results, nil
}

// Count reports how many records the underlying store holds.
func (ix *Index) Count(ctx context.Context) (int, error) {
	return ix.driver.Count(ctx)
}

// Close releases the embedder and driver.
func (ix *Index) Close() error {
	if err := ix.embedder.Close(); err != nil {
		return err
	}
	return ix.driver.Close()
}

// filterDuplicates drops chunks whose (content, metadata) pair already
// appears in a bounded sample of the store, and collapses duplicate
// pairs within the batch itself.
func (ix *Index) filterDuplicates(ctx context.Context, chunks []document.Document, scanLimit int) ([]document.Document, error) {
	if scanLimit <= 0 {
		scanLimit = DefaultDuplicateScanLimit
	}

	existing, err := ix.driver.Scroll(ctx, scanLimit)
	if err != nil {
		return nil, fmt.Errorf("scanning for duplicates: %w", err)
	}

	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		// Identifiers are stripped; only the (content, metadata) pair
		// participates in the comparison.
		seen[pairKey(rec.Content, rec.Metadata)] = struct{}{}
	}

	var fresh []document.Document
	for _, c := range chunks {
		key := pairKey(c.Content, c.Metadata)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh, nil
}

func (ix *Index) checkDimension(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: gateway returned an empty vector", vector.ErrEmbedding)
	}
	if ix.dimension == 0 {
		ix.dimension = len(vec)
		return nil
	}
	if len(vec) != ix.dimension {
		return fmt.Errorf("%w: got dimension %d, index configured for %d",
			vector.ErrDimensionMismatch, len(vec), ix.dimension)
	}
	return nil
}

// pairKey canonicalizes a (content, metadata) pair for structural
// comparison. json.Marshal sorts map keys, so key order never matters.
func pairKey(content string, metadata map[string]any) string {
	meta, err := json.Marshal(metadata)
	if err != nil {
		// Metadata values are scalars by contract; an unmarshalable
		// value still needs a stable key.
		meta = []byte(fmt.Sprintf("%v", metadata))
	}
	return content + "\x00" + string(meta)
}
