// Package chunker splits documents into bounded, overlapping text
// segments suitable for embedding and retrieval.
package chunker

import (
	"errors"
	"fmt"

	"github.com/0xdany/RAG-PDF-URLs/pkg/document"
)

const (
	// DefaultChunkSize is the default maximum chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the default number of trailing characters
	// shared between adjacent chunks.
	DefaultChunkOverlap = 200

	// DefaultSeparator is the default split-point separator.
	DefaultSeparator = " "
)

// ErrInvalidConfig is returned when chunking parameters are rejected.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// Config holds chunking parameters.
type Config struct {
	// ChunkSize is the maximum chunk length in characters. Must be > 0.
	ChunkSize int

	// ChunkOverlap is how many characters adjacent chunks share.
	// Must be >= 0 and < ChunkSize.
	ChunkOverlap int

	// Separator marks preferred split points. A chunk ends just before
	// the last separator occurrence inside its window when one exists;
	// otherwise the chunk is hard-cut at ChunkSize.
	Separator string
}

// Splitter splits text at separator boundaries into overlapping chunks.
// A Splitter is pure: Split and SplitText have no side effects.
type Splitter struct {
	cfg Config
}

// New validates cfg and returns a Splitter. A zero-value Separator
// defaults to DefaultSeparator; size and overlap are not defaulted, so
// a ChunkOverlap >= ChunkSize misconfiguration is rejected here rather
// than looping forever during Split.
func New(cfg Config) (*Splitter, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must be >= 0, got %d", ErrInvalidConfig, cfg.ChunkOverlap)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrInvalidConfig, cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	return &Splitter{cfg: cfg}, nil
}

// Split chunks each document's content, carrying the parent document's
// metadata verbatim onto every derived chunk. Metadata trimming is a
// separate prior stage; see document.FilterMetadata.
func (s *Splitter) Split(docs []document.Document) []document.Document {
	var chunks []document.Document
	for _, doc := range docs {
		for _, text := range s.SplitText(doc.Content) {
			chunk := doc.Clone()
			chunk.Content = text
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// SplitText splits text into segments of at most ChunkSize characters.
// Each segment ends at the last separator occurrence inside its window
// when the separator allows it, and the next segment starts ChunkOverlap
// characters before the previous segment's end. Concatenating the
// segments with overlaps removed reproduces the input exactly.
//
// All positions are measured in runes, not bytes, so hard cuts and
// overlap steps never land inside a multi-byte character.
func (s *Splitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	size := s.cfg.ChunkSize
	sep := []rune(s.cfg.Separator)

	var segments []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			segments = append(segments, string(runes[start:]))
			break
		}

		// Prefer the last separator inside the window. An occurrence at
		// position 0 would produce an empty chunk, so it does not count.
		if i := lastIndex(runes[start:end], sep); i > 0 {
			end = start + i
		}

		segments = append(segments, string(runes[start:end]))

		next := end - s.cfg.ChunkOverlap
		if next <= start {
			// The emitted chunk was shorter than the overlap; stepping
			// back would re-cover it. Resume at the cut instead.
			next = end
		}
		start = next
	}

	return segments
}

// lastIndex returns the rune index of the last occurrence of sep in
// window, or -1 when sep is absent.
func lastIndex(window, sep []rune) int {
	if len(sep) == 0 || len(sep) > len(window) {
		return -1
	}
outer:
	for i := len(window) - len(sep); i >= 0; i-- {
		for j, r := range sep {
			if window[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
