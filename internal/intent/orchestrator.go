package intent

import (
	"context"
	"log/slog"
)

// Method records which stage produced a decision. Scores from different
// methods are not comparable: a classifier score is a probability and a
// matcher score is a cosine similarity.
type Method string

const (
	MethodClassifier Method = "classifier"
	MethodMatcher    Method = "matcher"
	MethodNone       Method = "none"
)

// Sentiment is the optional sentiment signal supplied by the caller.
type Sentiment struct {
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}

// Decision is the per-input result of the orchestrator.
type Decision struct {
	Label     *string   `json:"label"`
	Category  string    `json:"category"`
	Score     float64   `json:"score"`
	Method    Method    `json:"method"`
	Intensity Intensity `json:"intensity"`
}

// Capabilities selects which decision stages are enabled.
type Capabilities struct {
	Classifier bool `json:"classifier" toml:"classifier"`
	Matcher    bool `json:"matcher" toml:"matcher"`
}

// Options configures an Orchestrator.
type Options struct {
	Source       Source
	Matcher      *Matcher
	Capabilities Capabilities
	// Categories maps classifier labels to display categories.
	Categories      map[string]string
	DefaultCategory string
	Logger          *slog.Logger
}

// Orchestrator combines the classifier, the matcher, and the intensity
// mapper into one decision per input.
type Orchestrator struct {
	source     Source
	matcher    *Matcher
	caps       Capabilities
	categories map[string]string
	defaultCat string
	logger     *slog.Logger
}

// NewOrchestrator creates an orchestrator. Nil Source or Matcher disable the
// corresponding stage.
func NewOrchestrator(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	def := opts.DefaultCategory
	if def == "" {
		def = CategoryOther
	}
	return &Orchestrator{
		source:     opts.Source,
		matcher:    opts.Matcher,
		caps:       opts.Capabilities,
		categories: opts.Categories,
		defaultCat: def,
		logger:     logger.With("module", "orchestrator"),
	}
}

// Capabilities returns the enabled stages.
func (o *Orchestrator) Capabilities() Capabilities {
	return o.caps
}

// Decide classifies text. It prefers the classifier, falls back to the
// matcher, and otherwise returns a decision with MethodNone and a nil label.
// Intensity is derived from s, or normal when s is nil. Decide never fails.
func (o *Orchestrator) Decide(ctx context.Context, text string, s *Sentiment) Decision {
	d := Decision{
		Category:  o.defaultCat,
		Method:    MethodNone,
		Intensity: IntensityNormal,
	}
	if s != nil {
		d.Intensity = IntensityOf(s.Score, s.Magnitude)
	}

	if o.classify(ctx, text, &d) {
		return d
	}
	if o.match(ctx, text, &d) {
		return d
	}

	o.logger.Warn("no decision stage available", "method", MethodNone)
	return d
}

func (o *Orchestrator) classify(ctx context.Context, text string, d *Decision) bool {
	if !o.caps.Classifier || o.source == nil {
		return false
	}

	c, err := o.source.Current()
	if err != nil {
		o.logger.Warn("classifier unavailable, falling back", "error", err)
		return false
	}

	label, score, err := c.Infer(ctx, text)
	if err != nil {
		o.logger.Warn("classifier failed, falling back", "run", c.ID(), "error", err)
		return false
	}

	d.Label = &label
	d.Score = score
	d.Method = MethodClassifier
	if cat, ok := o.categories[label]; ok {
		d.Category = cat
	} else {
		d.Category = label
	}
	return true
}

func (o *Orchestrator) match(ctx context.Context, text string, d *Decision) bool {
	if !o.caps.Matcher || o.matcher == nil {
		return false
	}

	m, err := o.matcher.Match(ctx, text)
	if err != nil {
		o.logger.Warn("matcher failed", "error", err)
		return false
	}
	if !m.Found {
		o.logger.Warn("matcher has no actions")
		return false
	}

	d.Label = &m.ActionID
	d.Score = m.Similarity
	d.Method = MethodMatcher
	if m.Category != "" {
		d.Category = m.Category
	}
	return true
}
