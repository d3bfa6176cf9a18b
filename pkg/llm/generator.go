// Package llm provides a provider-agnostic gateway for chat
// completion backends.
package llm

import (
	"context"
	"errors"
)

// ErrGeneration is wrapped around any provider failure so callers can
// branch on the class of error without knowing the backend.
var ErrGeneration = errors.New("llm: generation failed")

// Generator produces a completion for a single prompt.
type Generator interface {
	// Complete sends prompt to the backing model and returns the
	// generated text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}
