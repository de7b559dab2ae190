package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/llm"
	"github.com/JaimeStill/companion/pkg/sentiment"
)

// Result is the outcome of running a turn through the pipeline.
type Result struct {
	Reply     string
	Sentiment *sentiment.Result
	Decision  intent.Decision
}

// Pipeline runs a single turn: sentiment and completion in parallel, then
// the intent decision. It holds no conversation state.
type Pipeline struct {
	rt     *Runtime
	cfg    Config
	logger *slog.Logger
}

// NewPipeline creates a pipeline over rt with the given settings.
func NewPipeline(rt *Runtime, cfg Config) *Pipeline {
	logger := rt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		rt:     rt,
		cfg:    cfg,
		logger: logger.With("workflow", "chat"),
	}
}

// Prepare validates a command and resolves its style.
func (p *Pipeline) Prepare(cmd SendCommand) (string, personas.Style, error) {
	input := strings.TrimSpace(cmd.Input)
	if input == "" {
		return "", "", ErrEmptyInput
	}
	if n := utf8.RuneCountInString(input); n > p.cfg.MaxInputRunes {
		return "", "", fmt.Errorf("%w: %d runes, limit %d", ErrInputTooLong, n, p.cfg.MaxInputRunes)
	}

	style := cmd.Style
	if style == "" {
		style = p.cfg.DefaultStyle()
	}
	if _, err := personas.ParseStyle(string(style)); err != nil {
		return "", "", err
	}
	return input, style, nil
}

// Run answers input in style given the conversation window. Sentiment
// failures are logged and yield a nil sentiment; completion failures fail
// the turn with ErrCompletion.
func (p *Pipeline) Run(ctx context.Context, window *Conversation, input string, style personas.Style) (*Result, error) {
	system, err := p.instructions(ctx, style)
	if err != nil {
		return nil, err
	}

	var result Result
	g, gctx := errgroup.WithContext(ctx)

	if p.rt.Sentiment != nil {
		g.Go(func() error {
			s, err := p.rt.Sentiment.Analyze(gctx, input)
			if err != nil {
				p.logger.Warn("sentiment unavailable", "error", err)
				return nil
			}
			result.Sentiment = s
			return nil
		})
	}

	g.Go(func() error {
		resp, err := p.rt.Model.GenerateContent(gctx, window.Prompt(system, input), p.rt.Options...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCompletion, err)
		}
		reply, err := llm.Text(resp)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCompletion, err)
		}
		result.Reply = reply
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	subject := input
	if p.cfg.DecideOn == DecideOnReply {
		subject = result.Reply
	}

	var s *intent.Sentiment
	if result.Sentiment != nil {
		s = &intent.Sentiment{
			Score:     result.Sentiment.Score,
			Magnitude: result.Sentiment.Magnitude,
		}
	}
	result.Decision = p.rt.Intent.Decide(ctx, subject, s)

	return &result, nil
}

func (p *Pipeline) instructions(ctx context.Context, style personas.Style) (string, error) {
	if p.rt.Personas != nil {
		text, err := p.rt.Personas.Instructions(ctx, style)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, personas.ErrInvalidStyle) {
			return "", err
		}
		p.logger.Warn("persona lookup failed, using built-in instructions", "style", style, "error", err)
	}
	return personas.DefaultInstructions(style)
}
