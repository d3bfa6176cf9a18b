// Package servecmder provides the serve command for running the HTTP API server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xdany/RAG-PDF-URLs/api"
	"github.com/0xdany/RAG-PDF-URLs/cmd/ragpdf/wiring"
	"github.com/0xdany/RAG-PDF-URLs/pkg/config"
	"github.com/0xdany/RAG-PDF-URLs/pkg/dotdir"
	"github.com/0xdany/RAG-PDF-URLs/pkg/logger"
)

type serveCommander struct {
	apiListen          string
	chunkSize          int
	chunkOverlap       int
	embeddingProvider  string
	embeddingTarget    string
	embeddingModel     string
	embeddingDims      uint
	vectorProvider     string
	vectorTarget       string
	generationProvider string
	generationTarget   string
	generationModel    string

	debug  bool
	cfg    *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the HTTP API server.

Exposes the full pipeline over HTTP:
  POST /v1/ingest   Fetch, chunk, and index PDFs from URLs
  GET  /v1/search   Similarity search over indexed chunks
  POST /v1/ask      Retrieve context and synthesize an answer
  GET  /ping        Health check

Example:
  ragpdf serve
  ragpdf serve --api-listen :9090 --vector-store-provider sqlite --vector-store-target ./ragpdf.db`

const serveShortDesc string = "Run the HTTP API server"

var serveFlags = []string{
	config.FlagAPIListen,
	config.FlagChunkSize,
	config.FlagChunkOverlap,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagGenerationProv,
	config.FlagGenerationTgt,
	config.FlagGenerationMdl,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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

			config.BindRegisteredFlags(v, cmd, config.DefaultFlags, serveFlags)
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagAPIListen, &cmder.apiListen)
	config.AddIntFlag(cmd, config.DefaultFlags, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, config.DefaultFlags, config.FlagChunkOverlap, &cmder.chunkOverlap)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, config.DefaultFlags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagVectorProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagVectorTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagGenerationProv, &cmder.generationProvider)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagGenerationTgt, &cmder.generationTarget)
	config.AddStringFlag(cmd, config.DefaultFlags, config.FlagGenerationMdl, &cmder.generationModel)

	return cmd
}

func (c *serveCommander) run() error {
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

	gen, err := wiring.NewGenerator(c.cfg)
	if err != nil {
		return err
	}
	defer gen.Close()

	server := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
	}, pipeline, ix, gen, c.logger)

	c.logger.Info("starting api server",
		"api_addr", c.cfg.API.Listen,
		"vector_store", c.cfg.VectorStore.Provider,
		"embedding_model", c.cfg.Embedding.Model,
		"generation_model", c.cfg.Generation.Model,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("api server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}
