package intent

import (
	"context"

	"github.com/JaimeStill/companion/pkg/lifecycle"
	"github.com/JaimeStill/companion/pkg/storage"
)

// Status reports the serving state of the intent system.
type Status struct {
	Capabilities Capabilities `json:"capabilities"`
	Run          *Manifest    `json:"run,omitempty"`
	Actions      []Action     `json:"actions"`
	Encoder      string       `json:"encoder"`
	Storage      bool         `json:"storage"`
}

// System defines the public contract for intent decisions and artifact management.
type System interface {
	Handler() *Handler

	// Start loads the promoted classifier at startup and, when enabled,
	// watches the store for promotions until shutdown.
	Start(lc *lifecycle.Coordinator) error

	Decide(ctx context.Context, text string, s *Sentiment) Decision
	Status() Status

	Runs() ([]RunInfo, error)
	Promote(id string) error
	Reload() (*Manifest, error)

	Publish(ctx context.Context, id string) (string, error)
	Fetch(ctx context.Context, id string) error
	Published(ctx context.Context) ([]storage.BlobInfo, error)
}
