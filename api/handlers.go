package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/0xdany/RAG-PDF-URLs/pkg/answer"
	"github.com/0xdany/RAG-PDF-URLs/pkg/index"
	"github.com/0xdany/RAG-PDF-URLs/pkg/retriever"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IngestRequest is the body for POST /v1/ingest.
type IngestRequest struct {
	URLs            []string `json:"urls"`
	AllowDuplicates bool     `json:"allow_duplicates,omitempty"`
}

// AskRequest is the body for POST /v1/ask.
type AskRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// AskResponse is the answer together with the context it was grounded on.
type AskResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Context string `json:"context"`
	Count   int    `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleIngest handles POST /v1/ingest requests: load the given URLs,
// chunk them, and insert the chunks into the index.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	var req IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if len(req.URLs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "urls is required"})
	}

	result, err := s.pipeline.Run(c.Context(), req.URLs, index.InsertOptions{
		AllowDuplicates: req.AllowDuplicates,
	})
	if err != nil {
		s.logger.Error("ingestion failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(result)
}

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional, default 5): number of results to return
func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	topK := retriever.DefaultTopK
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	output, err := retriever.Retrieve(c.Context(), s.ix, query, topK, s.logger)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(output)
}

// handleAsk handles POST /v1/ask requests: retrieve context for the
// query and synthesize an answer.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	if s.generator == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "ask is not configured: generation provider is required",
		})
	}

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query is required"})
	}

	output, err := retriever.Retrieve(c.Context(), s.ix, req.Query, req.TopK, s.logger)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	generated, err := answer.Synthesize(c.Context(), s.generator, output.Context, req.Query, s.logger)
	if err != nil {
		s.logger.Error("answer synthesis failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(AskResponse{
		Query:   req.Query,
		Answer:  generated,
		Context: output.Context,
		Count:   output.Count,
	})
}
