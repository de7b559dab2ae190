package intent_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/embedding"
)

func TestTrainEndToEnd(t *testing.T) {
	ctx := context.Background()
	enc := embedding.NewHash(0)

	result := trainResult(t, enc)

	if got := result.Labels.Labels(); !slices.Equal(got, []string{"farewell", "greeting"}) {
		t.Fatalf("labels: got %v", got)
	}
	if result.Stopped {
		t.Error("completed run should not be stopped")
	}
	if result.Metrics.TrainExamples != 8 || result.Metrics.EvalExamples != 2 {
		t.Errorf("split: got %d/%d, want 8/2", result.Metrics.TrainExamples, result.Metrics.EvalExamples)
	}
	if len(result.Metrics.EvalLoss) == 0 {
		t.Error("eval loss should be recorded")
	}
	if len(result.Metrics.TrainLoss) == 0 {
		t.Error("train loss should be recorded")
	}
	if last := result.Metrics.EvalLoss[len(result.Metrics.EvalLoss)-1]; last.Step != result.Metrics.Steps {
		t.Errorf("final eval at step %d, want %d", last.Step, result.Metrics.Steps)
	}
	for _, p := range result.Metrics.EvalLoss {
		if p.Loss < result.Metrics.BestEvalLoss {
			t.Errorf("best eval loss %v is not the minimum (saw %v)", result.Metrics.BestEvalLoss, p.Loss)
		}
	}

	c, err := intent.NewClassifier(result, enc)
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}

	label, score, err := c.Infer(ctx, "hello there")
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if label != "greeting" && label != "farewell" {
		t.Errorf("label %q not in label space", label)
	}
	if score < 0 || score > 1 {
		t.Errorf("score %v outside [0,1]", score)
	}

	again, againScore, err := c.Infer(ctx, "hello there")
	if err != nil {
		t.Fatal(err)
	}
	if again != label || againScore != score {
		t.Errorf("inference not deterministic: (%s, %v) then (%s, %v)", label, score, again, againScore)
	}

	probs, err := c.Probabilities(ctx, "hello there")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Errorf("probabilities sum to %v", sum)
	}
}

// overfitEncoder gives each greeting a private axis and each farewell every
// other greeting's axis, so memorizing the training split pushes a held-out
// greeting toward farewell.
func overfitEncoder() (*vectorEncoder, []intent.Example) {
	const n = 5
	enc := &vectorEncoder{vectors: map[string][]float32{}}
	var examples []intent.Example
	for k := range n {
		g := make([]float32, n)
		g[k] = 1
		f := make([]float32, n)
		for j := range n {
			if j != k {
				f[j] = 1
			}
		}
		gt, ft := fmt.Sprintf("greet %d", k), fmt.Sprintf("leave %d", k)
		enc.vectors[gt], enc.vectors[ft] = g, f
		examples = append(examples,
			intent.Example{Text: gt, Label: "greeting"},
			intent.Example{Text: ft, Label: "farewell"},
		)
	}
	return enc, examples
}

func TestTrainKeepsBestCheckpoint(t *testing.T) {
	ctx := context.Background()
	enc, examples := overfitEncoder()

	cfg := intent.DefaultTrainConfig()
	cfg.BatchSize = 4
	cfg.Epochs = 400
	cfg.LearningRate = 5
	cfg.WeightDecay = 0
	cfg.EvalInterval = 1

	result, err := intent.Train(ctx, examples, enc, cfg, discard())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	m := result.Metrics
	if m.BestStep >= m.Steps {
		t.Fatalf("best step: got %d, want earlier than final step %d", m.BestStep, m.Steps)
	}
	last := m.EvalLoss[len(m.EvalLoss)-1]
	if last.Loss <= m.BestEvalLoss {
		t.Errorf("final eval loss %v should exceed best %v", last.Loss, m.BestEvalLoss)
	}

	var total float64
	for _, ex := range result.Eval {
		x, err := enc.Encode(ctx, ex.Text)
		if err != nil {
			t.Fatal(err)
		}
		y, ok := result.Labels.Index(ex.Label)
		if !ok {
			t.Fatalf("label %q missing from label space", ex.Label)
		}
		total -= math.Log(result.Head.Probabilities(x)[y])
	}
	got := total / float64(len(result.Eval))

	if math.Abs(got-m.BestEvalLoss) > 1e-9 {
		t.Errorf("head eval loss: got %v, want best %v", got, m.BestEvalLoss)
	}
}

func TestTrainDeterministic(t *testing.T) {
	enc := embedding.NewHash(0)

	a := trainResult(t, enc)
	b := trainResult(t, enc)

	if !reflect.DeepEqual(a.Head, b.Head) {
		t.Error("heads differ for the same seed")
	}
	if a.Metrics.BestStep != b.Metrics.BestStep {
		t.Errorf("best step: %d vs %d", a.Metrics.BestStep, b.Metrics.BestStep)
	}
}

func TestTrainErrors(t *testing.T) {
	enc := embedding.NewHash(0)

	tests := []struct {
		name     string
		examples []intent.Example
		cfg      func(*intent.TrainConfig)
		want     error
	}{
		{
			name: "empty dataset",
			want: intent.ErrEmptyDataset,
		},
		{
			name: "label with one example",
			examples: []intent.Example{
				{Text: "hello", Label: "greeting"},
				{Text: "hi", Label: "greeting"},
				{Text: "bye", Label: "farewell"},
			},
			want: intent.ErrInsufficientData,
		},
		{
			name: "single label",
			examples: []intent.Example{
				{Text: "hello", Label: "greeting"},
				{Text: "hi", Label: "greeting"},
			},
			want: intent.ErrInsufficientData,
		},
		{
			name:     "invalid config",
			examples: greetingExamples(),
			cfg:      func(c *intent.TrainConfig) { c.EvalSplit = 1 },
			want:     intent.ErrInvalidConfig,
		},
		{
			name:     "unsupported metric",
			examples: greetingExamples(),
			cfg:      func(c *intent.TrainConfig) { c.EarlyStopMetric = "accuracy" },
			want:     intent.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTrainConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			_, err := intent.Train(context.Background(), tt.examples, enc, cfg, discard())
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTrainStopsAtEpochBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(&cancelOn{msg: "eval", cancel: cancel})

	cfg := testTrainConfig()
	cfg.BatchSize = 8
	cfg.EvalInterval = 1
	cfg.Epochs = 5

	result, err := intent.Train(ctx, greetingExamples(), embedding.NewHash(0), cfg, logger)
	if !errors.Is(err, intent.ErrTrainingStopped) {
		t.Fatalf("error: got %v, want ErrTrainingStopped", err)
	}
	if result == nil {
		t.Fatal("stopped run should return the best checkpoint")
	}
	if !result.Stopped {
		t.Error("result should be flagged stopped")
	}
	if result.Metrics.Steps != 1 {
		t.Errorf("steps: got %d, want 1", result.Metrics.Steps)
	}
}
