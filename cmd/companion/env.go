package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/JaimeStill/companion/internal/config"
	"github.com/JaimeStill/companion/internal/infrastructure"
	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/embedding"
	"github.com/JaimeStill/companion/pkg/storage"
)

// env carries the pieces most commands share.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &env{
		cfg:    cfg,
		logger: infrastructure.NewLogger(cfg).With("module", "cli"),
	}, nil
}

func (e *env) store() (*intent.Store, error) {
	return intent.OpenStore(e.cfg.Intent.ArtifactRoot)
}

func (e *env) encoder() (embedding.Encoder, error) {
	enc, err := embedding.New(&e.cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	return enc, nil
}

func (e *env) blobs() (storage.System, error) {
	if !e.cfg.Storage.Enabled() {
		return nil, intent.ErrStorageDisabled
	}
	return storage.New(&e.cfg.Storage, e.logger)
}

// intentSystem builds the intent system outside the server. blobs may be nil.
func (e *env) intentSystem(c *cli.Context, blobs storage.System) (intent.System, error) {
	enc, err := e.encoder()
	if err != nil {
		return nil, err
	}
	return intent.New(c.Context, &e.cfg.Intent, enc, blobs, e.logger)
}
