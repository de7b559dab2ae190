package intent_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/embedding"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func greetingExamples() []intent.Example {
	return []intent.Example{
		{Text: "hello", Label: "greeting"},
		{Text: "hi there", Label: "greeting"},
		{Text: "good morning", Label: "greeting"},
		{Text: "hey, nice to meet you", Label: "greeting"},
		{Text: "hello friend", Label: "greeting"},
		{Text: "goodbye", Label: "farewell"},
		{Text: "see you later", Label: "farewell"},
		{Text: "bye for now", Label: "farewell"},
		{Text: "good night, take care", Label: "farewell"},
		{Text: "farewell friend", Label: "farewell"},
	}
}

func testTrainConfig() intent.TrainConfig {
	cfg := intent.DefaultTrainConfig()
	cfg.Epochs = 20
	cfg.BatchSize = 4
	cfg.EvalInterval = 5
	return cfg
}

func trainResult(t *testing.T, enc embedding.Encoder) *intent.Result {
	t.Helper()

	result, err := intent.Train(context.Background(), greetingExamples(), enc, testTrainConfig(), discard())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return result
}

// vectorEncoder returns fixed vectors per text.
type vectorEncoder struct {
	vectors map[string][]float32
}

func (e *vectorEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	v, ok := e.vectors[text]
	if !ok {
		return nil, errors.New("unknown text")
	}
	return v, nil
}

func (e *vectorEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Encode(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *vectorEncoder) Descriptor() embedding.Descriptor {
	return embedding.Descriptor{Provider: "test", Model: "vectors", Dimensions: 2}
}

// cancelOn cancels a context when a log record with the given message is handled.
type cancelOn struct {
	msg    string
	cancel context.CancelFunc
}

func (h *cancelOn) Enabled(context.Context, slog.Level) bool { return true }

func (h *cancelOn) Handle(_ context.Context, r slog.Record) error {
	if r.Message == h.msg {
		h.cancel()
	}
	return nil
}

func (h *cancelOn) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *cancelOn) WithGroup(string) slog.Handler      { return h }

// staticSource serves a fixed classifier or error.
type staticSource struct {
	classifier *intent.Classifier
	err        error
}

func (s staticSource) Current() (*intent.Classifier, error) {
	return s.classifier, s.err
}
