package embedding

import (
	"fmt"
	"os"
	"strconv"
)

// Config selects and parameterizes a sentence encoder.
type Config struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	Dimensions        int     `toml:"dimensions"`
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	InputType         string  `toml:"input_type"`
	BatchSize         int     `toml:"batch_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider          string
	Model             string
	Dimensions        string
	APIKey            string
	BaseURL           string
	RequestsPerSecond string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	c.loadProviderDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Dimensions != 0 {
		c.Dimensions = overlay.Dimensions
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.InputType != "" {
		c.InputType = overlay.InputType
	}
	if overlay.BatchSize != 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.RequestsPerSecond != 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderHash
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Dimensions != "" {
		if v := os.Getenv(env.Dimensions); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Dimensions = n
			}
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.RequestsPerSecond != "" {
		if v := os.Getenv(env.RequestsPerSecond); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.RequestsPerSecond = f
			}
		}
	}
}

// loadProviderDefaults fills model and size defaults once the provider is final.
func (c *Config) loadProviderDefaults() {
	switch c.Provider {
	case ProviderHash:
		if c.Dimensions <= 0 {
			c.Dimensions = DefaultHashDimensions
		}
	case ProviderVoyage:
		if c.Model == "" {
			c.Model = "voyage-3.5-lite"
		}
		if c.Dimensions <= 0 {
			c.Dimensions = 1024
		}
		if c.BatchSize > 128 {
			c.BatchSize = 128
		}
	case ProviderOpenAI:
		if c.Model == "" {
			c.Model = "text-embedding-3-small"
		}
	case ProviderOllama:
		if c.Model == "" {
			c.Model = "nomic-embed-text"
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderHash, ProviderOpenAI, ProviderOllama:
	case ProviderVoyage:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for voyage provider")
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
	if c.Dimensions < 0 {
		return fmt.Errorf("dimensions must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	return nil
}
