package factory

import (
	"context"
	"fmt"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/llm"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/llm/ollama"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/llm/openai"
)

// Config selects and configures a backend.
type Config struct {
	Provider string // "ollama" or "openai"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "openai":
		return openai.NewProvider(ctx, openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
