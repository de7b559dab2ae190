package intent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/JaimeStill/companion/pkg/embedding"
)

// MetricEvalLoss is the only supported early-stop metric.
const MetricEvalLoss = "eval_loss"

// TrainConfig parameterizes a training run.
type TrainConfig struct {
	BatchSize       int        `json:"batch_size" toml:"batch_size"`
	Epochs          int        `json:"epochs" toml:"epochs"`
	LearningRate    float64    `json:"learning_rate" toml:"learning_rate"`
	WeightDecay     float64    `json:"weight_decay" toml:"weight_decay"`
	EvalSplit       float64    `json:"eval_split" toml:"eval_split"`
	LogInterval     int        `json:"log_interval" toml:"log_interval"`
	EvalInterval    int        `json:"eval_interval" toml:"eval_interval"`
	EarlyStopMetric string     `json:"early_stop_metric" toml:"early_stop_metric"`
	Seed            uint64     `json:"seed" toml:"seed"`
	Preprocess      Preprocess `json:"preprocess" toml:"preprocess"`
}

// DefaultTrainConfig returns the settings used when none are configured.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		BatchSize:       8,
		Epochs:          10,
		LearningRate:    0.5,
		EvalSplit:       0.2,
		LogInterval:     10,
		EvalInterval:    100,
		EarlyStopMetric: MetricEvalLoss,
		Seed:            42,
		Preprocess:      DefaultPreprocess(),
	}
}

// Validate reports the first invalid setting.
func (c TrainConfig) Validate() error {
	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	case c.Epochs <= 0:
		return fmt.Errorf("%w: epochs must be positive", ErrInvalidConfig)
	case c.LearningRate <= 0:
		return fmt.Errorf("%w: learning_rate must be positive", ErrInvalidConfig)
	case c.WeightDecay < 0:
		return fmt.Errorf("%w: weight_decay must not be negative", ErrInvalidConfig)
	case c.EvalSplit <= 0 || c.EvalSplit >= 1:
		return fmt.Errorf("%w: eval_split must be in (0,1)", ErrInvalidConfig)
	case c.LogInterval <= 0:
		return fmt.Errorf("%w: log_interval must be positive", ErrInvalidConfig)
	case c.EvalInterval <= 0:
		return fmt.Errorf("%w: eval_interval must be positive", ErrInvalidConfig)
	case c.EarlyStopMetric != MetricEvalLoss:
		return fmt.Errorf("%w: unsupported early_stop_metric %q", ErrInvalidConfig, c.EarlyStopMetric)
	}
	return c.Preprocess.Validate()
}

// LossPoint is a loss observation at a global optimizer step.
type LossPoint struct {
	Step  int     `json:"step"`
	Epoch float64 `json:"epoch"`
	Loss  float64 `json:"loss"`
}

// Metrics summarizes a training run.
type Metrics struct {
	TrainExamples int         `json:"train_examples"`
	EvalExamples  int         `json:"eval_examples"`
	Steps         int         `json:"steps"`
	TrainLoss     []LossPoint `json:"train_loss"`
	EvalLoss      []LossPoint `json:"eval_loss"`
	BestStep      int         `json:"best_step"`
	BestEvalLoss  float64     `json:"best_eval_loss"`
	EvalAccuracy  float64     `json:"eval_accuracy"`
	Duration      string      `json:"duration"`
}

// Result is the outcome of Train. Head is the checkpoint with the lowest
// evaluation loss, not necessarily the final weights.
type Result struct {
	Labels     *LabelSpace
	Head       *Head
	Encoder    embedding.Descriptor
	Config     TrainConfig
	Metrics    Metrics
	Eval       []Example
	Stopped    bool
	FinishedAt time.Time
}

type encoded struct {
	xs [][]float32
	ys []int
}

// Train fits a softmax classification head over sentence embeddings of examples.
//
// The run is deterministic for a fixed seed and encoder. Training loss is
// recorded every LogInterval steps and evaluation loss every EvalInterval
// steps and at the final step. Cancellation of ctx is honored at epoch
// boundaries: Train then returns the best checkpoint so far with Stopped set,
// together with ErrTrainingStopped. Stopped results must not be promoted.
func Train(ctx context.Context, examples []Example, enc embedding.Encoder, cfg TrainConfig, logger *slog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	labels, err := BuildLabelSpace(examples)
	if err != nil {
		return nil, err
	}
	if labels.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 labels, got %d", ErrInsufficientData, labels.Len())
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	trainSet, evalSet, err := Split(examples, labels, cfg.EvalSplit, rng)
	if err != nil {
		return nil, err
	}

	logger.Info(
		"training started",
		"examples", len(examples),
		"labels", labels.Len(),
		"train", len(trainSet),
		"eval", len(evalSet),
		"encoder", enc.Descriptor().String(),
	)

	started := time.Now()

	train, err := encodeExamples(ctx, enc, trainSet, labels, cfg.Preprocess)
	if err != nil {
		return nil, err
	}
	eval, err := encodeExamples(ctx, enc, evalSet, labels, cfg.Preprocess)
	if err != nil {
		return nil, err
	}

	dims := len(train.xs[0])
	desc := enc.Descriptor()
	if desc.Dimensions == 0 {
		desc.Dimensions = dims
	}

	head := newHead(labels.Len(), dims)
	metrics := Metrics{
		TrainExamples: len(trainSet),
		EvalExamples:  len(evalSet),
		BestEvalLoss:  math.Inf(1),
	}

	var best *Head
	n := len(train.xs)
	stepsPerEpoch := (n + cfg.BatchSize - 1) / cfg.BatchSize

	step := 0
	lastEval := -1
	evaluate := func() {
		loss, acc := head.loss(eval.xs, eval.ys)
		epoch := float64(step) / float64(stepsPerEpoch)
		metrics.EvalLoss = append(metrics.EvalLoss, LossPoint{Step: step, Epoch: epoch, Loss: loss})
		lastEval = step

		if loss < metrics.BestEvalLoss {
			metrics.BestEvalLoss = loss
			metrics.BestStep = step
			metrics.EvalAccuracy = acc
			best = head.clone()
		}

		logger.Info("eval", "step", step, "epoch", epoch, "eval_loss", loss, "eval_accuracy", acc)
	}

	var running float64
	var runningSteps int
	stopped := false

	for epoch := range cfg.Epochs {
		if ctx.Err() != nil {
			stopped = true
			logger.Warn("training cancelled", "epoch", epoch, "step", step)
			break
		}

		order := rng.Perm(n)
		for start := 0; start < n; start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, n)
			bx := make([][]float32, 0, end-start)
			by := make([]int, 0, end-start)
			for _, i := range order[start:end] {
				bx = append(bx, train.xs[i])
				by = append(by, train.ys[i])
			}

			running += head.step(bx, by, cfg.LearningRate, cfg.WeightDecay)
			runningSteps++
			step++

			if step%cfg.LogInterval == 0 {
				loss := running / float64(runningSteps)
				ep := float64(step) / float64(stepsPerEpoch)
				metrics.TrainLoss = append(metrics.TrainLoss, LossPoint{Step: step, Epoch: ep, Loss: loss})
				logger.Info("train", "step", step, "epoch", ep, "loss", loss)
				running, runningSteps = 0, 0
			}

			if step%cfg.EvalInterval == 0 {
				evaluate()
			}
		}
	}

	if step > 0 && lastEval != step {
		evaluate()
	}

	metrics.Steps = step
	metrics.Duration = time.Since(started).Round(time.Millisecond).String()

	if best == nil {
		return nil, fmt.Errorf("%w: no optimizer steps completed", ErrTrainingStopped)
	}

	result := &Result{
		Labels:     labels,
		Head:       best,
		Encoder:    desc,
		Config:     cfg,
		Metrics:    metrics,
		Eval:       evalSet,
		Stopped:    stopped,
		FinishedAt: time.Now().UTC(),
	}

	logger.Info(
		"training finished",
		"steps", step,
		"best_step", metrics.BestStep,
		"best_eval_loss", metrics.BestEvalLoss,
		"eval_accuracy", metrics.EvalAccuracy,
		"stopped", stopped,
		"duration", metrics.Duration,
	)

	if stopped {
		return result, ErrTrainingStopped
	}
	return result, nil
}

func encodeExamples(ctx context.Context, enc embedding.Encoder, examples []Example, labels *LabelSpace, pre Preprocess) (*encoded, error) {
	texts := make([]string, len(examples))
	ys := make([]int, len(examples))
	for i, ex := range examples {
		texts[i] = pre.Apply(ex.Text)
		ys[i], _ = labels.Index(ex.Label)
	}

	xs, err := enc.EncodeBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	for i, x := range xs {
		if len(x) == 0 || len(x) != len(xs[0]) {
			return nil, fmt.Errorf("%w: example %d has %d dims", ErrEncoding, i, len(x))
		}
	}

	return &encoded{xs: xs, ys: ys}, nil
}
