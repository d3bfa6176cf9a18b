// Package memvec provides an in-memory vector driver using brute-force
// cosine similarity. It is the zero-infrastructure backend for tests and
// small corpora.
package memvec

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
)

// Driver implements vector.Driver with in-process storage.
type Driver struct {
	logger *slog.Logger

	mu        sync.RWMutex
	dimension int
	records   []vector.Record
}

// Config holds configuration for the in-memory driver.
type Config struct {
	// Dimensions fixes the embedding dimension up front. When zero, the
	// dimension is established by the first Add.
	Dimensions uint
}

// NewDriver creates an in-memory vector driver.
func NewDriver(c Config, logger *slog.Logger) *Driver {
	return &Driver{
		logger:    logger,
		dimension: int(c.Dimensions),
	}
}

// Add appends records, enforcing a single embedding dimension across the
// collection.
func (d *Driver) Add(_ context.Context, recs []vector.Record) error {
	if len(recs) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, rec := range recs {
		if len(rec.Embedding) == 0 {
			return fmt.Errorf("%w: record %s has no embedding", vector.ErrDimensionMismatch, rec.ID)
		}
		if d.dimension == 0 {
			d.dimension = len(rec.Embedding)
		}
		if len(rec.Embedding) != d.dimension {
			return fmt.Errorf("%w: record %s has dimension %d, store has %d",
				vector.ErrDimensionMismatch, rec.ID, len(rec.Embedding), d.dimension)
		}
	}

	d.records = append(d.records, recs...)

	d.logger.Debug("added records to memory store", "count", len(recs))
	return nil
}

// Query scores every stored record against the embedding and returns the
// topK best. Ties keep insertion order, so identical queries against an
// unchanged store return identical orderings.
func (d *Driver) Query(_ context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.dimension != 0 && len(embedding) != d.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, store has %d",
			vector.ErrDimensionMismatch, len(embedding), d.dimension)
	}

	results := make([]vector.QueryResult, 0, len(d.records))
	for _, rec := range d.records {
		results = append(results, vector.QueryResult{
			Record: rec,
			Score:  cosine(embedding, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Scroll returns up to limit records in insertion order. Embeddings are
// omitted; Scroll serves duplicate scans, which compare content and
// metadata only.
func (d *Driver) Scroll(_ context.Context, limit int) ([]vector.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := len(d.records)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]vector.Record, 0, n)
	for _, rec := range d.records[:n] {
		out = append(out, vector.Record{
			ID:       rec.ID,
			Content:  rec.Content,
			Metadata: rec.Metadata,
		})
	}
	return out, nil
}

// Count reports the number of stored records.
func (d *Driver) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records), nil
}

// Delete removes records by ID. Unknown IDs are ignored.
func (d *Driver) Delete(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.records[:0]
	for _, rec := range d.records {
		if _, ok := drop[rec.ID]; !ok {
			kept = append(kept, rec)
		}
	}
	d.records = kept
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

var _ vector.Driver = (*Driver)(nil)
