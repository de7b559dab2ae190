package intent

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/companion/pkg/embedding"
)

const matcherConcurrency = 4

// Match is the outcome of matching text against the action table.
// Similarity is a cosine similarity in [-1,1], not a probability.
type Match struct {
	ActionID   string  `json:"action_id,omitempty"`
	Category   string  `json:"category,omitempty"`
	Similarity float64 `json:"similarity"`
	Found      bool    `json:"found"`
}

// Matcher selects the action whose example phrases are nearest to the input.
// Phrase embeddings are computed once at construction; a Matcher is read-only
// afterwards and safe for concurrent use.
type Matcher struct {
	encoder embedding.Encoder
	actions []Action
	vectors [][][]float32
}

// NewMatcher validates actions and precomputes their phrase embeddings.
func NewMatcher(ctx context.Context, enc embedding.Encoder, actions []Action) (*Matcher, error) {
	if err := validateActions(actions); err != nil {
		return nil, err
	}

	vectors := make([][][]float32, len(actions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(matcherConcurrency)

	for i, a := range actions {
		g.Go(func() error {
			vs, err := enc.EncodeBatch(gctx, a.Phrases)
			if err != nil {
				return fmt.Errorf("%w: action %q: %w", ErrEncoding, a.ID, err)
			}
			vectors[i] = vs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Matcher{
		encoder: enc,
		actions: append([]Action(nil), actions...),
		vectors: vectors,
	}, nil
}

// Actions returns the action table in declaration order.
func (m *Matcher) Actions() []Action {
	return append([]Action(nil), m.actions...)
}

// Match encodes text once and returns the best action.
//
// An action scores the maximum similarity over its phrases. Actions are
// compared in declaration order with a strict greater-than, so when two
// actions score equally the one declared first wins. With no actions the
// result is not found with similarity 0. Non-finite similarities are
// skipped; when no phrase yields a finite score the result is not found.
func (m *Matcher) Match(ctx context.Context, text string) (Match, error) {
	if len(m.actions) == 0 {
		return Match{}, nil
	}

	x, err := m.encoder.Encode(ctx, text)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	best := -1
	bestScore := math.Inf(-1)

	for i, phrases := range m.vectors {
		score := math.Inf(-1)
		for _, v := range phrases {
			c := embedding.Cosine(x, v)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				continue
			}
			score = max(score, c)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return Match{}, nil
	}

	a := m.actions[best]
	return Match{
		ActionID:   a.ID,
		Category:   a.Category,
		Similarity: bestScore,
		Found:      true,
	}, nil
}

// MatchText matches text against actions without caching phrase embeddings.
func MatchText(ctx context.Context, enc embedding.Encoder, text string, actions []Action) (Match, error) {
	m, err := NewMatcher(ctx, enc, actions)
	if err != nil {
		return Match{}, err
	}
	return m.Match(ctx, text)
}
