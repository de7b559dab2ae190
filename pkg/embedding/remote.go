package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type embedFunc func(ctx context.Context, texts []string) ([][]float32, error)

// remote adapts a provider call into an Encoder: it validates inputs, splits
// batches to the provider's request size, throttles requests, and checks the
// returned dimensionality.
type remote struct {
	desc      Descriptor
	batchSize int
	limiter   *rate.Limiter
	embed     embedFunc
}

func newRemote(cfg *Config, desc Descriptor, fn embedFunc) *remote {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Every(time.Duration(float64(time.Second) / cfg.RequestsPerSecond))
	}

	return &remote{
		desc:      desc,
		batchSize: max(1, cfg.BatchSize),
		limiter:   rate.NewLimiter(limit, max(1, cfg.Burst)),
		embed:     fn,
	}
}

func (r *remote) Descriptor() Descriptor {
	return r.desc
}

func (r *remote) Encode(ctx context.Context, text string) ([]float32, error) {
	out, err := r.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *remote) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, ErrEmptyInput
		}
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += r.batchSize {
		end := min(start+r.batchSize, len(texts))

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vecs, err := r.embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%s embed: %w", r.desc.Provider, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("%s embed: got %d vectors for %d inputs", r.desc.Provider, len(vecs), end-start)
		}

		for _, v := range vecs {
			if r.desc.Dimensions > 0 && len(v) != r.desc.Dimensions {
				return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), r.desc.Dimensions)
			}
		}
		out = append(out, vecs...)
	}

	return out, nil
}
