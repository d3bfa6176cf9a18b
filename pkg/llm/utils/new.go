// Package llmutils is the llm utility package
package llmutils

import (
	"fmt"

	"github.com/0xdany/RAG-PDF-URLs/pkg/llm"
	"github.com/0xdany/RAG-PDF-URLs/pkg/llm/ollama"
	"github.com/0xdany/RAG-PDF-URLs/pkg/llm/openai"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewGenerator(o *NewGeneratorOpts) (llm.Generator, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewGenerator(ollama.GeneratorConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewGenerator(openai.GeneratorConfig{
			BaseURL: o.TargetURL,
			APIKey:  o.APIKey,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.ProviderType)
	}
}
