package sentiment

import (
	"fmt"
	"os"
)

// Config selects the sentiment provider.
type Config struct {
	Provider string `toml:"provider"`
	Language string `toml:"language"`
	Timeout  string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider string
	Language string
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
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Language != "" {
		if v := os.Getenv(env.Language); v != "" {
			c.Language = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderNone, ProviderGoogle, ProviderLLM:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
}
