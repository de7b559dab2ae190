package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// Watch reloads registry whenever the store's CURRENT pointer changes.
// It blocks until ctx is cancelled. A failed reload is logged and the
// previous classifier keeps serving.
func Watch(ctx context.Context, store *Store, registry *Registry, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(store.Root()); err != nil {
		return fmt.Errorf("watch %s: %w", store.Root(), err)
	}

	logger = logger.With("module", "watch")
	logger.Info("watching artifact store", "root", store.Root())

	target := filepath.Clean(store.CurrentPath())

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			c, err := registry.Reload()
			switch {
			case errors.Is(err, ErrNoArtifact):
				logger.Warn("current pointer removed, keeping loaded classifier")
			case err != nil:
				logger.Error("reload failed, keeping previous classifier", "error", err)
			default:
				logger.Info("classifier reloaded", "run", c.ID())
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
