package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

type embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewLangchain creates an encoder backed by an OpenAI-compatible or Ollama
// embeddings endpoint through langchaingo.
func NewLangchain(cfg *Config) (Encoder, error) {
	var (
		e   embedder
		err error
	)

	switch cfg.Provider {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithEmbeddingModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Dimensions > 0 {
			opts = append(opts, openai.WithEmbeddingDimensions(cfg.Dimensions))
		}
		e, err = openai.New(opts...)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		e, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("create %s embedder: %w", cfg.Provider, err)
	}

	desc := Descriptor{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
	}

	return newRemote(cfg, desc, e.CreateEmbedding), nil
}
