package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/companion/internal/chat"
	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/database"
	"github.com/JaimeStill/companion/pkg/embedding"
	"github.com/JaimeStill/companion/pkg/llm"
	"github.com/JaimeStill/companion/pkg/sentiment"
	"github.com/JaimeStill/companion/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCompanionEnv             = "COMPANION_ENV"
	EnvCompanionShutdownTimeout = "COMPANION_SHUTDOWN_TIMEOUT"
	EnvCompanionVersion         = "COMPANION_VERSION"
	EnvCompanionLogLevel        = "COMPANION_LOG_LEVEL"
)

// Config is the root configuration for the companion service and CLI.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	LLM             llm.Config       `toml:"llm"`
	Embedding       embedding.Config `toml:"embedding"`
	Sentiment       sentiment.Config `toml:"sentiment"`
	Intent          intent.Config    `toml:"intent"`
	Chat            chat.Config      `toml:"chat"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
	LogLevel        string           `toml:"log_level"`
}

// Env returns the COMPANION_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCompanionEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Without a config.toml, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base file. The overlay is resolved
// next to the base file.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.LLM.Merge(&overlay.LLM)
	c.Embedding.Merge(&overlay.Embedding)
	c.Sentiment.Merge(&overlay.Sentiment)
	c.Intent.Merge(&overlay.Intent)
	c.Chat.Merge(&overlay.Chat)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Embedding.Finalize(embeddingEnv); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := c.Sentiment.Finalize(sentimentEnv); err != nil {
		return fmt.Errorf("sentiment: %w", err)
	}
	if err := c.Intent.Finalize(intentEnv); err != nil {
		return fmt.Errorf("intent: %w", err)
	}
	if err := c.Chat.Finalize(chatEnv); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCompanionShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCompanionVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvCompanionLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvCompanionEnv)
	if env == "" {
		return ""
	}
	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
