package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/0xdany/RAG-PDF-URLs/pkg/index"
	"github.com/0xdany/RAG-PDF-URLs/pkg/ingest"
	"github.com/0xdany/RAG-PDF-URLs/pkg/llm"
)

// Server is the HTTP surface over the ingestion and retrieval pipeline.
type Server struct {
	config    Config
	pipeline  *ingest.Pipeline
	ix        *index.Index
	generator llm.Generator
	logger    *slog.Logger
	app       *fiber.App
}

// NewServer creates a new API server. The pipeline, index, and
// generator are injected so the CLI and the server share one wiring.
// A nil generator disables /v1/ask with a clear error.
func NewServer(config Config, pipeline *ingest.Pipeline, ix *index.Index, generator llm.Generator, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		pipeline:  pipeline,
		ix:        ix,
		generator: generator,
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/v1/ingest", s.handleIngest)
	app.Get("/v1/search", s.handleSearch)
	app.Post("/v1/ask", s.handleAsk)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
