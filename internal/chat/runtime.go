package chat

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/llm"
	"github.com/JaimeStill/companion/pkg/sentiment"
)

// Decider makes the intent decision for a turn.
type Decider interface {
	Decide(ctx context.Context, text string, s *intent.Sentiment) intent.Decision
}

// Instructor resolves the system prompt for a style.
type Instructor interface {
	Instructions(ctx context.Context, style personas.Style) (string, error)
}

// Runtime holds the collaborators a chat turn calls out to.
// Sentiment may be nil, which disables the sentiment stage.
type Runtime struct {
	Model     llm.Generator
	Options   []llms.CallOption
	Sentiment sentiment.Analyzer
	Intent    Decider
	Personas  Instructor
	Logger    *slog.Logger
}
