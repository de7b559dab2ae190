package embedding

import (
	"context"
	"fmt"

	"github.com/austinfhunter/voyageai"
)

// NewVoyage creates an encoder backed by the Voyage AI embeddings API.
func NewVoyage(cfg *Config) (Encoder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("voyage: api_key required")
	}

	client := voyageai.NewClient(&voyageai.VoyageClientOpts{
		Key: cfg.APIKey,
	})

	model := cfg.Model
	dims := cfg.Dimensions
	inputType := cfg.InputType

	desc := Descriptor{
		Provider:   ProviderVoyage,
		Model:      model,
		Dimensions: dims,
	}

	embed := func(_ context.Context, texts []string) ([][]float32, error) {
		opts := &voyageai.EmbeddingRequestOpts{}
		if dims > 0 {
			opts.OutputDimension = &dims
		}
		if inputType != "" {
			opts.InputType = &inputType
		}

		resp, err := client.Embed(texts, model, opts)
		if err != nil {
			return nil, err
		}

		out := make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			out[i] = d.Embedding
		}
		return out, nil
	}

	return newRemote(cfg, desc, embed), nil
}
