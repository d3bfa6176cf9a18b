// Package ingest wires the document pipeline: load sources, trim
// metadata, chunk, and insert into the index.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0xdany/RAG-PDF-URLs/pkg/chunker"
	"github.com/0xdany/RAG-PDF-URLs/pkg/document"
	"github.com/0xdany/RAG-PDF-URLs/pkg/index"
)

// DefaultAllowedMetadata lists the metadata keys that survive into the
// vector store. Everything else is trimmed before chunking.
var DefaultAllowedMetadata = []string{"source", "page", "total_pages"}

// Loader fetches source locators into documents.
type Loader interface {
	Load(ctx context.Context, urls []string) ([]document.Document, error)
}

// Pipeline runs the ingestion stages in order.
type Pipeline struct {
	loader   Loader
	splitter *chunker.Splitter
	index    *index.Index
	allowed  []string
	logger   *slog.Logger
}

// Result summarizes one ingestion run.
type Result struct {
	// Documents is how many page documents the loader produced.
	Documents int `json:"documents"`

	// Chunks is how many chunks the splitter produced from them.
	Chunks int `json:"chunks"`

	// Inserted is how many chunks the index accepted after dedup.
	Inserted int `json:"inserted"`
}

// New creates a pipeline. A nil allowed list keeps
// DefaultAllowedMetadata.
func New(loader Loader, splitter *chunker.Splitter, ix *index.Index, allowed []string, logger *slog.Logger) *Pipeline {
	if allowed == nil {
		allowed = DefaultAllowedMetadata
	}
	return &Pipeline{
		loader:   loader,
		splitter: splitter,
		index:    ix,
		allowed:  allowed,
		logger:   logger,
	}
}

// Run ingests the given URLs: load, trim metadata, chunk, insert.
func (p *Pipeline) Run(ctx context.Context, urls []string, opts index.InsertOptions) (*Result, error) {
	docs, err := p.loader.Load(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}

	// Metadata is trimmed before chunking so every chunk of a page
	// carries the same trimmed attributes.
	docs = document.FilterMetadata(docs, p.allowed)
	chunks := p.splitter.Split(docs)

	inserted, err := p.index.Insert(ctx, chunks, opts)
	if err != nil {
		return nil, fmt.Errorf("inserting chunks: %w", err)
	}

	p.logger.Info("ingestion complete",
		"urls", len(urls),
		"documents", len(docs),
		"chunks", len(chunks),
		"inserted", inserted,
	)

	return &Result{
		Documents: len(docs),
		Chunks:    len(chunks),
		Inserted:  inserted,
	}, nil
}
