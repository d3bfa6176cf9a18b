// Package answer synthesizes a natural-language answer from retrieved
// context by prompting a completion backend.
package answer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0xdany/RAG-PDF-URLs/pkg/llm"
)

// BuildPrompt assembles the grounding context and the user's question
// into the prompt sent to the model. The template is fixed; an empty
// context produces a prompt with an empty context section, which lets
// the model answer (or decline) from the question alone.
func BuildPrompt(contextText, query string) string {
	return "Context: " + contextText + " \nQuestion: " + query
}

// Synthesize prompts gen with the retrieved context and the query and
// returns the generated answer verbatim.
func Synthesize(ctx context.Context, gen llm.Generator, contextText, query string, logger *slog.Logger) (string, error) {
	prompt := BuildPrompt(contextText, query)

	logger.Debug("synthesizing answer", "query", query, "context_len", len(contextText))

	answer, err := gen.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("completing prompt: %w", err)
	}
	return answer, nil
}
