// Package retriever turns a query into grounding context: it runs the
// similarity search and assembles the matched chunk contents into a
// single context string for the answer synthesizer.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/0xdany/RAG-PDF-URLs/pkg/index"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
)

// DefaultTopK is the number of chunks retrieved when the caller does
// not specify one.
const DefaultTopK = 5

// Output is the result of a retrieval: the ranked matches and the
// assembled context string.
type Output struct {
	Query   string               `json:"query"`
	Results []vector.QueryResult `json:"results"`
	Count   int                  `json:"count"`

	// Context is the retrieved chunk contents joined by newlines, best
	// match first. Empty when nothing matched; that is a valid input
	// downstream, not an error.
	Context string `json:"context"`
}

// Retrieve searches the index for the query and assembles the context.
func Retrieve(ctx context.Context, ix *index.Index, query string, topK int, logger *slog.Logger) (*Output, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Debug("retrieval request", "query", query, "top_k", topK)

	results, err := ix.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	return &Output{
		Query:   query,
		Results: results,
		Count:   len(results),
		Context: BuildContext(results),
	}, nil
}

// BuildContext joins result contents with newlines, preserving rank
// order.
func BuildContext(results []vector.QueryResult) string {
	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	return strings.Join(contents, "\n")
}
