// Package ingestcmder provides the ingest command for fetching and indexing PDFs.
package ingestcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/wiring"
	"github.com/0xdany/RAG-PDF-URLs/pkg/cliui"
	"github.com/0xdany/RAG-PDF-URLs/pkg/config"
	"github.com/0xdany/RAG-PDF-URLs/pkg/dotdir"
	"github.com/0xdany/RAG-PDF-URLs/pkg/index"
	"github.com/0xdany/RAG-PDF-URLs/pkg/ingest"
	"github.com/0xdany/RAG-PDF-URLs/pkg/logger"
)

type ingestCommander struct {
	urls []string

	chunkSize         int
	chunkOverlap      int
	embeddingProvider string
	embeddingTarget   string
	embeddingModel    string
	embeddingDims     uint
	vectorProvider    string
	vectorTarget      string
	allowDuplicates   bool

	debug  bool
	cfg    *config.Config
	logger *slog.Logger
}

const ingestLongDesc string = `Fetch PDFs from URLs, chunk them, and index the chunks.

Each URL is downloaded, split into pages, and the page text is chunked with
overlap before being embedded and inserted into the vector store. Chunks whose
content is already stored are skipped unless --allow-duplicates is set.

Example:
  ragpdf ingest https://arxiv.org/pdf/1706.03762
  ragpdf ingest https://example.com/a.pdf https://example.com/b.pdf --chunk-size 500
  ragpdf ingest https://example.com/a.pdf --vector-store-provider sqlite --vector-store-target ./ragpdf.db`

const ingestShortDesc string = "Fetch, chunk, and index PDF documents"

// ingestFlags are the registry keys the ingest command opts into.
var ingestFlags = []string{
	config.FlagChunkSize,
	config.FlagChunkOverlap,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagAllowDup,
}

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <url>...",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			dir, err := dotdir.NewManager().Target(configDir)
			if err != nil {
				return fmt.Errorf("resolving config directory: %w", err)
			}

			v, err := config.InitViper(dir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.DefaultFlags, ingestFlags)
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.urls = args

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddIntFlag(cmd, config.DefaultFlags, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, config.DefaultFlags, config.FlagChunkOverlap, &cmder.chunkOverlap)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, config.DefaultFlags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagVectorProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagVectorTgt, &cmder.vectorTarget)
	config.AddBoolFlag(cmd, config.DefaultFlags, config.FlagAllowDup, &cmder.allowDuplicates)

	return cmd
}

func (c *ingestCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))
	ctx := context.Background()

	ix, err := wiring.NewIndex(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer ix.Close()

	pipeline, err := wiring.NewPipeline(c.cfg, ix, c.logger)
	if err != nil {
		return err
	}

	var result *ingest.Result
	err = cliui.Step(os.Stdout, fmt.Sprintf("ingesting %d source(s)", len(c.urls)), func() error {
		var stepErr error
		result, stepErr = pipeline.Run(ctx, c.urls, index.InsertOptions{
			AllowDuplicates:    c.cfg.Ingest.AllowDuplicates,
			DuplicateScanLimit: c.cfg.Ingest.ScanLimit,
		})
		return stepErr
	})
	if err != nil {
		return err
	}

	skipped := result.Chunks - result.Inserted
	fmt.Printf("Ingested %d document pages: %d chunks, %d inserted, %d skipped as duplicates\n",
		result.Documents, result.Chunks, result.Inserted, skipped)

	return nil
}
