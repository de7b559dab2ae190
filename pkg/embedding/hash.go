package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// DefaultHashDimensions is the vector size used when NewHash receives a non-positive size.
const DefaultHashDimensions = 512

const (
	wordWeight    = 1.0
	bigramWeight  = 0.75
	trigramWeight = 0.5
)

type hashEncoder struct {
	dims int
}

// NewHash creates a local feature-hashing encoder.
//
// Each text contributes word unigrams, adjacent word bigrams, and character
// trigrams of every boundary-marked word. Features are hashed with FNV-1a into
// dims signed buckets and the result is L2-normalized, so texts sharing words
// or word stems land close together in cosine space. The encoder needs no
// network access and is fully deterministic.
func NewHash(dims int) Encoder {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &hashEncoder{dims: dims}
}

func (h *hashEncoder) Descriptor() Descriptor {
	return Descriptor{
		Provider:   ProviderHash,
		Model:      "fnv1a-ngram",
		Dimensions: h.dims,
	}
}

func (h *hashEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := tokenize(text)
	if len(words) == 0 {
		return nil, ErrEmptyInput
	}

	v := make([]float32, h.dims)
	for i, w := range words {
		h.add(v, "w:"+w, wordWeight)
		if i > 0 {
			h.add(v, "b:"+words[i-1]+" "+w, bigramWeight)
		}

		marked := []rune("^" + w + "$")
		for j := 0; j+3 <= len(marked); j++ {
			h.add(v, "c:"+string(marked[j:j+3]), trigramWeight)
		}
	}

	Normalize(v)
	return v, nil
}

func (h *hashEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := h.Encode(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (h *hashEncoder) add(v []float32, feature string, weight float32) {
	f := fnv.New64a()
	f.Write([]byte(feature))
	sum := f.Sum64()

	idx := int(sum % uint64(h.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
