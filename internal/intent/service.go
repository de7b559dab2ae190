package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/companion/pkg/embedding"
	"github.com/JaimeStill/companion/pkg/lifecycle"
	"github.com/JaimeStill/companion/pkg/storage"
)

type service struct {
	cfg          *Config
	store        *Store
	registry     *Registry
	matcher      *Matcher
	orchestrator *Orchestrator
	encoder      embedding.Encoder
	blobs        storage.System
	logger       *slog.Logger
}

// New opens the artifact store and builds the matcher and orchestrator.
// blobs may be nil when blob storage is not configured.
func New(
	ctx context.Context,
	cfg *Config,
	enc embedding.Encoder,
	blobs storage.System,
	logger *slog.Logger,
) (System, error) {
	logger = logger.With("system", "intent")

	store, err := OpenStore(cfg.ArtifactRoot)
	if err != nil {
		return nil, err
	}

	caps := cfg.Capabilities()

	var matcher *Matcher
	if caps.Matcher {
		matcher, err = NewMatcher(ctx, enc, cfg.ActionTable())
		if err != nil {
			return nil, fmt.Errorf("build matcher: %w", err)
		}
	}

	registry := NewRegistry(store, enc, logger)

	return &service{
		cfg:      cfg,
		store:    store,
		registry: registry,
		matcher:  matcher,
		orchestrator: NewOrchestrator(Options{
			Source:          registry,
			Matcher:         matcher,
			Capabilities:    caps,
			Categories:      cfg.Categories,
			DefaultCategory: cfg.DefaultCategory,
			Logger:          logger,
		}),
		encoder: enc,
		blobs:   blobs,
		logger:  logger,
	}, nil
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting intent system", "root", s.store.Root(), "encoder", s.encoder.Descriptor().String())

	if !s.cfg.Capabilities().Classifier {
		return nil
	}

	lc.OnStartup(func() {
		if _, err := s.registry.Reload(); err != nil {
			if errors.Is(err, ErrNoArtifact) {
				s.logger.Warn("no promoted classifier, matcher only")
			} else {
				s.logger.Error("classifier load failed at startup", "error", err)
			}
		}

	})

	if s.cfg.WatchEnabled() {
		lc.Go("intent watch", func(ctx context.Context) error {
			err := Watch(ctx, s.store, s.registry, s.logger)
			if err != nil {
				s.logger.Error("artifact watch stopped", "error", err)
			}
			return err
		})
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.registry.Clear()
		s.logger.Info("intent system stopped")
	})

	return nil
}

func (s *service) Decide(ctx context.Context, text string, sent *Sentiment) Decision {
	return s.orchestrator.Decide(ctx, text, sent)
}

func (s *service) Status() Status {
	st := Status{
		Capabilities: s.orchestrator.Capabilities(),
		Encoder:      s.encoder.Descriptor().String(),
		Storage:      s.blobs != nil,
	}
	if s.matcher != nil {
		st.Actions = s.matcher.Actions()
	}
	if c, err := s.registry.Current(); err == nil {
		m := c.Manifest()
		st.Run = &m
	}
	return st
}

func (s *service) Runs() ([]RunInfo, error) {
	return s.store.Runs()
}

func (s *service) Promote(id string) error {
	if err := s.store.Promote(id); err != nil {
		return err
	}
	s.logger.Info("run promoted", "run", id)
	return nil
}

func (s *service) Reload() (*Manifest, error) {
	c, err := s.registry.Reload()
	if err != nil {
		return nil, err
	}
	m := c.Manifest()
	return &m, nil
}

func (s *service) Publish(ctx context.Context, id string) (string, error) {
	if s.blobs == nil {
		return "", ErrStorageDisabled
	}
	key, err := s.store.Publish(ctx, s.blobs, id)
	if err != nil {
		return "", err
	}
	s.logger.Info("run published", "run", id, "key", key)
	return key, nil
}

func (s *service) Fetch(ctx context.Context, id string) error {
	if s.blobs == nil {
		return ErrStorageDisabled
	}
	if err := s.store.Fetch(ctx, s.blobs, id); err != nil {
		return err
	}
	s.logger.Info("run fetched", "run", id)
	return nil
}

func (s *service) Published(ctx context.Context) ([]storage.BlobInfo, error) {
	if s.blobs == nil {
		return nil, ErrStorageDisabled
	}
	return s.blobs.List(ctx, bundlePrefix)
}
