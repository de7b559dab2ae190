package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/companion/pkg/formatting"
	"github.com/JaimeStill/companion/pkg/llm"
)

const llmInstructions = `You are a sentiment analysis service. Score the sentiment of the user's text.

Respond with a JSON object matching this exact structure, no markdown fencing:

{
  "score": <number from -1.0 (very negative) to 1.0 (very positive)>,
  "magnitude": <number >= 0.0, overall emotional strength, summed across sentences>,
  "language": "<ISO-639-1 code of the text>",
  "sentences": [{"text": "<sentence>", "score": <number>, "magnitude": <number>}]
}`

type verdict struct {
	Score     float64    `json:"score"`
	Magnitude float64    `json:"magnitude"`
	Language  string     `json:"language"`
	Sentences []Sentence `json:"sentences"`
}

// LLM asks a chat model for a sentiment verdict and parses its JSON reply.
type LLM struct {
	gen      llm.Generator
	language string
}

// NewLLM creates an analyzer backed by gen.
func NewLLM(gen llm.Generator, cfg *Config) *LLM {
	return &LLM{gen: gen, language: cfg.Language}
}

func (a *LLM) Analyze(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, llmInstructions),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	resp, err := a.gen.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("sentiment completion: %w", err)
	}

	content, err := llm.Text(resp)
	if err != nil {
		return nil, err
	}

	v, err := formatting.Parse[verdict](content)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Score:     clamp(v.Score, -1, 1),
		Magnitude: max(0, v.Magnitude),
		Language:  v.Language,
		Sentences: v.Sentences,
	}
	if result.Language == "" {
		result.Language = a.language
	}
	if result.Sentences == nil {
		result.Sentences = []Sentence{}
	}

	return result, nil
}
