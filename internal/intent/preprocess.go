package intent

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Padding is the sequence padding policy recorded with an artifact.
type Padding string

const (
	PaddingNone      Padding = "none"
	PaddingMaxLength Padding = "max_length"
)

// Preprocess normalizes text before encoding. The same settings are applied
// at training and at inference; artifacts persist them so a loaded classifier
// reproduces its training-time input shape.
type Preprocess struct {
	MaxTokens int     `json:"max_tokens" toml:"max_tokens"`
	Padding   Padding `json:"padding" toml:"padding"`
	Lowercase bool    `json:"lowercase" toml:"lowercase"`
}

// DefaultPreprocess returns the preprocessing used when none is configured.
func DefaultPreprocess() Preprocess {
	return Preprocess{
		MaxTokens: 64,
		Padding:   PaddingMaxLength,
		Lowercase: true,
	}
}

// Apply NFKC-normalizes text, optionally case-folds it, collapses whitespace,
// and truncates to MaxTokens whitespace-delimited tokens.
//
// Padding has no effect on the text: sentence encoders emit fixed-size
// vectors regardless of input length, so max_length padding is satisfied by
// construction.
func (p Preprocess) Apply(text string) string {
	text = norm.NFKC.String(text)
	if p.Lowercase {
		text = cases.Fold().String(text)
	}

	tokens := strings.Fields(text)
	if p.MaxTokens > 0 && len(tokens) > p.MaxTokens {
		tokens = tokens[:p.MaxTokens]
	}
	return strings.Join(tokens, " ")
}

// Validate reports whether the settings are usable.
func (p Preprocess) Validate() error {
	if p.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidConfig)
	}
	switch p.Padding {
	case PaddingNone, PaddingMaxLength:
		return nil
	default:
		return fmt.Errorf("%w: unknown padding %q", ErrInvalidConfig, p.Padding)
	}
}
