// Package llm abstracts the text-generation backend. The journal and its
// producers treat generated output as opaque text.
package llm

import (
	"context"
	"fmt"

	"github.com/quillworks/localagent/internal/config"
)

// Options bound a single generation call. TaskType is a free-form category
// tag ("email", "resume") a provider may use for routing; it is never
// required.
type Options struct {
	MaxTokens   int
	Temperature float32
	TaskType    string
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// New builds the generator selected by cfg.
func New(cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "echo":
		return Echo{}, nil
	case "openai":
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
