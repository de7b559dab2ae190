// Package embedding provides sentence encoders that map text to fixed-size vectors.
//
// Encoders are read-only after construction and safe for concurrent use.
// Remote encoders share a rate limiter so concurrent callers cannot exceed
// the configured request budget.
package embedding

import (
	"context"
	"fmt"
)

// Providers supported by New.
const (
	ProviderHash   = "hash"
	ProviderVoyage = "voyage"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Descriptor identifies an encoder. Classifier artifacts record the descriptor
// of the encoder they were trained with so incompatible encoders are rejected at load.
type Descriptor struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

// Compatible reports whether vectors from d and other can be compared.
func (d Descriptor) Compatible(other Descriptor) bool {
	return d.Provider == other.Provider &&
		d.Model == other.Model &&
		d.Dimensions == other.Dimensions
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s@%d", d.Provider, d.Model, d.Dimensions)
}

// Encoder maps text to a dense vector of fixed dimensionality.
type Encoder interface {
	// Encode returns the embedding for a single text.
	Encode(ctx context.Context, text string) ([]float32, error)
	// EncodeBatch returns one embedding per input, in input order.
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Descriptor identifies the provider, model, and output dimensionality.
	Descriptor() Descriptor
}

// New creates the encoder selected by cfg.Provider.
func New(cfg *Config) (Encoder, error) {
	switch cfg.Provider {
	case ProviderHash:
		return NewHash(cfg.Dimensions), nil
	case ProviderVoyage:
		return NewVoyage(cfg)
	case ProviderOpenAI, ProviderOllama:
		return NewLangchain(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
