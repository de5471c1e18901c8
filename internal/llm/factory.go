package llm

import (
	"context"
	"fmt"
	"strings"
)

type TutorOptions struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewTutor selects a provider implementation from configuration.
func NewTutor(ctx context.Context, opts TutorOptions) (Tutor, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return NewOpenAITutor(opts.APIKey, opts.Model, opts.BaseURL), nil
	case "gemini":
		return NewGeminiTutor(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported tutor provider: %s", opts.Provider)
	}
}
