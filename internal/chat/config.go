package chat

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/companion/internal/personas"
)

// What the intent decision is made on.
const (
	DecideOnInput = "input"
	DecideOnReply = "reply"
)

// Config holds chat pipeline settings.
type Config struct {
	HistoryTurns   int    `toml:"history_turns"`
	MaxInputRunes  int    `toml:"max_input_runes"`
	DecideOn       string `toml:"decide_on"`
	Style          string `toml:"style"`
	TranscriptPath string `toml:"transcript_path"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	HistoryTurns   string
	MaxInputRunes  string
	DecideOn       string
	Style          string
	TranscriptPath string
}

// DefaultStyle returns the configured default style.
func (c *Config) DefaultStyle() personas.Style {
	return personas.Style(c.Style)
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
	if overlay.HistoryTurns != 0 {
		c.HistoryTurns = overlay.HistoryTurns
	}
	if overlay.MaxInputRunes != 0 {
		c.MaxInputRunes = overlay.MaxInputRunes
	}
	if overlay.DecideOn != "" {
		c.DecideOn = overlay.DecideOn
	}
	if overlay.Style != "" {
		c.Style = overlay.Style
	}
	if overlay.TranscriptPath != "" {
		c.TranscriptPath = overlay.TranscriptPath
	}
}

func (c *Config) loadDefaults() {
	if c.HistoryTurns == 0 {
		c.HistoryTurns = 10
	}
	if c.MaxInputRunes == 0 {
		c.MaxInputRunes = 2000
	}
	if c.DecideOn == "" {
		c.DecideOn = DecideOnInput
	}
	if c.Style == "" {
		c.Style = string(personas.StylePlayful)
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.HistoryTurns != "" {
		if v := os.Getenv(env.HistoryTurns); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.HistoryTurns = n
			}
		}
	}
	if env.MaxInputRunes != "" {
		if v := os.Getenv(env.MaxInputRunes); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxInputRunes = n
			}
		}
	}
	if env.DecideOn != "" {
		if v := os.Getenv(env.DecideOn); v != "" {
			c.DecideOn = v
		}
	}
	if env.Style != "" {
		if v := os.Getenv(env.Style); v != "" {
			c.Style = v
		}
	}
	if env.TranscriptPath != "" {
		if v := os.Getenv(env.TranscriptPath); v != "" {
			c.TranscriptPath = v
		}
	}
}

func (c *Config) validate() error {
	if c.HistoryTurns < 0 {
		return fmt.Errorf("%w: history_turns must not be negative", ErrInvalidConfig)
	}
	if c.MaxInputRunes < 1 {
		return fmt.Errorf("%w: max_input_runes must be positive", ErrInvalidConfig)
	}
	if c.DecideOn != DecideOnInput && c.DecideOn != DecideOnReply {
		return fmt.Errorf("%w: decide_on must be %q or %q", ErrInvalidConfig, DecideOnInput, DecideOnReply)
	}
	if _, err := personas.ParseStyle(c.Style); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
