package intent

import (
	"log/slog"
	"sync/atomic"

	"github.com/JaimeStill/companion/pkg/embedding"
)

// Source supplies the classifier used for inference.
type Source interface {
	// Current returns the serving classifier, or ErrNoArtifact when none is loaded.
	Current() (*Classifier, error)
}

// Registry holds the promoted classifier of a store. Reload swaps it
// atomically; readers never block.
type Registry struct {
	store   *Store
	encoder embedding.Encoder
	current atomic.Pointer[Classifier]
	logger  *slog.Logger
}

// NewRegistry creates an empty registry over store. Call Reload to load the
// promoted run.
func NewRegistry(store *Store, enc embedding.Encoder, logger *slog.Logger) *Registry {
	return &Registry{
		store:   store,
		encoder: enc,
		logger:  logger.With("module", "registry"),
	}
}

// Current returns the loaded classifier.
func (r *Registry) Current() (*Classifier, error) {
	c := r.current.Load()
	if c == nil {
		return nil, ErrNoArtifact
	}
	return c, nil
}

// Reload loads the promoted run and swaps it in. On failure the previously
// loaded classifier stays in service.
func (r *Registry) Reload() (*Classifier, error) {
	id, path, err := r.store.Current()
	if err != nil {
		return nil, err
	}

	if prev := r.current.Load(); prev != nil && prev.ID() == id {
		return prev, nil
	}

	c, err := LoadClassifier(path, r.encoder)
	if err != nil {
		r.logger.Error("classifier load failed", "run", id, "error", err)
		return nil, err
	}

	r.current.Store(c)
	r.logger.Info("classifier loaded", "run", id, "labels", c.Labels().Labels())
	return c, nil
}

// Set replaces the serving classifier directly.
func (r *Registry) Set(c *Classifier) {
	r.current.Store(c)
}

// Clear removes the serving classifier.
func (r *Registry) Clear() {
	r.current.Store(nil)
}
