// Package sentiment scores the emotional polarity and strength of text.
//
// Scores range over [-1, 1] (negative to positive); magnitude is a
// non-negative measure of overall emotional strength that grows with text length.
package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/companion/pkg/llm"
)

// Providers supported by New.
const (
	ProviderNone   = "none"
	ProviderGoogle = "google"
	ProviderLLM    = "llm"
)

var (
	// ErrEmptyText indicates there was nothing to analyze.
	ErrEmptyText = errors.New("empty text")
	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown sentiment provider")
)

// Sentence is the sentiment of a single sentence within the analyzed text.
type Sentence struct {
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}

// Result is the document-level sentiment with per-sentence detail.
type Result struct {
	Score     float64    `json:"document_score"`
	Magnitude float64    `json:"document_magnitude"`
	Language  string     `json:"language"`
	Sentences []Sentence `json:"sentences"`
}

// Analyzer scores the sentiment of text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}

// New creates the analyzer selected by cfg.Provider. The llm provider analyzes
// with gen. Returns a nil Analyzer for ProviderNone.
func New(ctx context.Context, cfg *Config, gen llm.Generator) (Analyzer, error) {
	switch cfg.Provider {
	case ProviderNone:
		return nil, nil
	case ProviderGoogle:
		return NewGoogle(ctx, cfg)
	case ProviderLLM:
		if gen == nil {
			return nil, fmt.Errorf("llm sentiment requires a model")
		}
		return NewLLM(gen, cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
