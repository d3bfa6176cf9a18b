// Package wiring builds the pipeline stack from resolved configuration.
// Shared by the CLI subcommands and the serve command so they cannot
// drift in how providers are constructed.
package wiring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0xdany/RAG-PDF-URLs/pkg/chunker"
	"github.com/0xdany/RAG-PDF-URLs/pkg/config"
	embeddingutils "github.com/0xdany/RAG-PDF-URLs/pkg/embeddings/utils"
	"github.com/0xdany/RAG-PDF-URLs/pkg/index"
	"github.com/0xdany/RAG-PDF-URLs/pkg/ingest"
	"github.com/0xdany/RAG-PDF-URLs/pkg/llm"
	llmutils "github.com/0xdany/RAG-PDF-URLs/pkg/llm/utils"
	"github.com/0xdany/RAG-PDF-URLs/pkg/loader"
	vectorutils "github.com/0xdany/RAG-PDF-URLs/pkg/vector/utils"
)

// NewIndex builds the embedder and vector driver from cfg and composes
// them into an index. The caller owns Close.
func NewIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*index.Index, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	driver, err := vectorutils.NewDriver(ctx, &vectorutils.NewDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		Target:       cfg.VectorStore.Target,
		Collection:   cfg.VectorStore.Collection,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("creating vector driver: %w", err)
	}

	return index.New(embedder, driver, index.Config{
		Dimensions: cfg.Embedding.Dimensions,
	}, logger), nil
}

// NewPipeline builds the full ingestion pipeline around ix.
func NewPipeline(cfg *config.Config, ix *index.Index, logger *slog.Logger) (*ingest.Pipeline, error) {
	splitter, err := chunker.New(chunker.Config{
		ChunkSize:    cfg.Chunking.Size,
		ChunkOverlap: cfg.Chunking.Overlap,
		Separator:    cfg.Chunking.Separator,
	})
	if err != nil {
		return nil, fmt.Errorf("creating splitter: %w", err)
	}

	return ingest.New(loader.NewPDFLoader(logger), splitter, ix, nil, logger), nil
}

// NewGenerator builds the answer synthesis backend from cfg.
func NewGenerator(cfg *config.Config) (llm.Generator, error) {
	gen, err := llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
		ProviderType: cfg.Generation.Provider,
		TargetURL:    cfg.Generation.Target,
		Model:        cfg.Generation.Model,
		APIKey:       cfg.Generation.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	return gen, nil
}
