// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, database, blob storage, language
// model, encoder, sentiment) that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/companion/internal/config"
	"github.com/JaimeStill/companion/pkg/database"
	"github.com/JaimeStill/companion/pkg/embedding"
	"github.com/JaimeStill/companion/pkg/lifecycle"
	"github.com/JaimeStill/companion/pkg/llm"
	"github.com/JaimeStill/companion/pkg/sentiment"
	"github.com/JaimeStill/companion/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is nil when no blob endpoint is configured, and Sentiment is nil
// when the sentiment provider is "none".
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Model     llms.Model
	Encoder   embedding.Encoder
	Sentiment sentiment.Analyzer
}

// NewLogger creates the process logger at the configured level.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(cfg)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	var blobs storage.System
	if cfg.Storage.Enabled() {
		blobs, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
	} else {
		logger.Info("blob storage not configured, artifact publishing disabled")
	}

	model, err := llm.New(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm init failed: %w", err)
	}

	enc, err := embedding.New(&cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("encoder init failed: %w", err)
	}

	analyzer, err := sentiment.New(lc.Context(), &cfg.Sentiment, model)
	if err != nil {
		return nil, fmt.Errorf("sentiment init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   blobs,
		Model:     model,
		Encoder:   enc,
		Sentiment: analyzer,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	if c, ok := i.Sentiment.(io.Closer); ok {
		i.Lifecycle.OnClose("sentiment", c.Close)
	}
	return nil
}
