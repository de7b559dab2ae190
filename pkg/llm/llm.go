// Package llm constructs langchaingo chat models from configuration and provides
// helpers for reading completion responses.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Providers supported by New.
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
	ProviderOllama = "ollama"
)

var (
	// ErrEmptyResponse indicates the model returned no usable choice.
	ErrEmptyResponse = errors.New("empty completion response")
	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// Generator is the subset of llms.Model used by callers. Tests substitute fakes.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// New creates the chat model selected by cfg.Provider.
func New(cfg *Config) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.Token != "" {
			opts = append(opts, openai.WithToken(cfg.Token))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	case ProviderAzure:
		return openai.New(
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithAPIVersion(cfg.APIVersion),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(cfg.Token),
			openai.WithModel(cfg.Model),
		)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// Text returns the content of the first choice in resp.
func Text(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// CallOptions returns the per-call options configured for completions.
func CallOptions(cfg *Config) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(cfg.Temperature)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	return opts
}
