package intent

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds artifact, capability, and action settings for the intent system.
// Boolean switches are pointers so an unset field keeps its default through Merge.
type Config struct {
	ArtifactRoot    string            `toml:"artifact_root"`
	Classifier      *bool             `toml:"classifier"`
	Matcher         *bool             `toml:"matcher"`
	Watch           *bool             `toml:"watch"`
	DefaultCategory string            `toml:"default_category"`
	Categories      map[string]string `toml:"categories"`
	Actions         []Action          `toml:"actions"`
	Training        TrainConfig       `toml:"training"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ArtifactRoot string
	Classifier   string
	Matcher      string
	Watch        string
}

// Capabilities returns the enabled decision stages.
func (c *Config) Capabilities() Capabilities {
	return Capabilities{
		Classifier: enabled(c.Classifier),
		Matcher:    enabled(c.Matcher),
	}
}

// WatchEnabled reports whether the artifact store is watched for promotions.
func (c *Config) WatchEnabled() bool {
	return enabled(c.Watch)
}

// ActionTable returns the configured actions, or DefaultActions when none are configured.
func (c *Config) ActionTable() []Action {
	if len(c.Actions) == 0 {
		return DefaultActions()
	}
	return c.Actions
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ArtifactRoot != "" {
		c.ArtifactRoot = overlay.ArtifactRoot
	}
	if overlay.Classifier != nil {
		c.Classifier = overlay.Classifier
	}
	if overlay.Matcher != nil {
		c.Matcher = overlay.Matcher
	}
	if overlay.Watch != nil {
		c.Watch = overlay.Watch
	}
	if overlay.DefaultCategory != "" {
		c.DefaultCategory = overlay.DefaultCategory
	}
	if overlay.Categories != nil {
		c.Categories = overlay.Categories
	}
	if overlay.Actions != nil {
		c.Actions = overlay.Actions
	}
	c.Training.merge(&overlay.Training)
}

func (c *Config) loadDefaults() {
	if c.ArtifactRoot == "" {
		c.ArtifactRoot = "artifacts"
	}
	if c.Classifier == nil {
		c.Classifier = boolPtr(true)
	}
	if c.Matcher == nil {
		c.Matcher = boolPtr(true)
	}
	if c.Watch == nil {
		c.Watch = boolPtr(true)
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = CategoryOther
	}
	c.Training.fillDefaults()
}

func (c *Config) loadEnv(env *Env) {
	if env.ArtifactRoot != "" {
		if v := os.Getenv(env.ArtifactRoot); v != "" {
			c.ArtifactRoot = v
		}
	}
	for _, b := range []struct {
		name string
		dst  **bool
	}{
		{env.Classifier, &c.Classifier},
		{env.Matcher, &c.Matcher},
		{env.Watch, &c.Watch},
	} {
		if b.name == "" {
			continue
		}
		if v := os.Getenv(b.name); v != "" {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*b.dst = boolPtr(parsed)
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ArtifactRoot == "" {
		return fmt.Errorf("artifact_root required")
	}
	if len(c.Actions) > 0 {
		if err := validateActions(c.Actions); err != nil {
			return err
		}
	}
	if err := c.Training.Validate(); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	return nil
}

func (c *TrainConfig) fillDefaults() {
	def := DefaultTrainConfig()
	if c.BatchSize == 0 {
		c.BatchSize = def.BatchSize
	}
	if c.Epochs == 0 {
		c.Epochs = def.Epochs
	}
	if c.LearningRate == 0 {
		c.LearningRate = def.LearningRate
	}
	if c.EvalSplit == 0 {
		c.EvalSplit = def.EvalSplit
	}
	if c.LogInterval == 0 {
		c.LogInterval = def.LogInterval
	}
	if c.EvalInterval == 0 {
		c.EvalInterval = def.EvalInterval
	}
	if c.EarlyStopMetric == "" {
		c.EarlyStopMetric = def.EarlyStopMetric
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
	if c.Preprocess.MaxTokens == 0 {
		c.Preprocess = def.Preprocess
	}
}

func (c *TrainConfig) merge(overlay *TrainConfig) {
	if overlay.BatchSize != 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.Epochs != 0 {
		c.Epochs = overlay.Epochs
	}
	if overlay.LearningRate != 0 {
		c.LearningRate = overlay.LearningRate
	}
	if overlay.WeightDecay != 0 {
		c.WeightDecay = overlay.WeightDecay
	}
	if overlay.EvalSplit != 0 {
		c.EvalSplit = overlay.EvalSplit
	}
	if overlay.LogInterval != 0 {
		c.LogInterval = overlay.LogInterval
	}
	if overlay.EvalInterval != 0 {
		c.EvalInterval = overlay.EvalInterval
	}
	if overlay.EarlyStopMetric != "" {
		c.EarlyStopMetric = overlay.EarlyStopMetric
	}
	if overlay.Seed != 0 {
		c.Seed = overlay.Seed
	}
	if overlay.Preprocess.MaxTokens != 0 {
		c.Preprocess = overlay.Preprocess
	}
}

func enabled(b *bool) bool {
	return b != nil && *b
}

func boolPtr(b bool) *bool {
	return &b
}
