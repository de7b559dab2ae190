package chat_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/sentiment"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = msgs
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

type fakeAnalyzer struct {
	result *sentiment.Result
	err    error
}

func (f *fakeAnalyzer) Analyze(context.Context, string) (*sentiment.Result, error) {
	return f.result, f.err
}

type fakeDecider struct {
	text      string
	sentiment *intent.Sentiment
}

func (f *fakeDecider) Decide(_ context.Context, text string, s *intent.Sentiment) intent.Decision {
	f.text, f.sentiment = text, s
	label := "wave_hand"
	intensity := intent.IntensityNormal
	if s != nil {
		intensity = intent.IntensityOf(s.Score, s.Magnitude)
	}
	return intent.Decision{
		Label:     &label,
		Category:  intent.CategoryGreeting,
		Score:     0.9,
		Method:    intent.MethodMatcher,
		Intensity: intensity,
	}
}

type fakeInstructor struct {
	text string
	err  error
}

func (f *fakeInstructor) Instructions(_ context.Context, style personas.Style) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
