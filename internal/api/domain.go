package api

import (
	"fmt"

	"github.com/JaimeStill/companion/internal/auth"
	"github.com/JaimeStill/companion/internal/chat"
	"github.com/JaimeStill/companion/internal/config"
	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/llm"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Intent   intent.System
	Personas personas.System
	Chat     chat.System
	Auth     auth.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) (*Domain, error) {
	intentSystem, err := intent.New(
		runtime.Lifecycle.Context(),
		&cfg.Intent,
		runtime.Encoder,
		runtime.Storage,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("intent init failed: %w", err)
	}

	personasSystem := personas.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	chatSystem := chat.New(
		runtime.Database.Connection(),
		&chat.Runtime{
			Model:     runtime.Model,
			Options:   llm.CallOptions(&cfg.LLM),
			Sentiment: runtime.Sentiment,
			Intent:    intentSystem,
			Personas:  personasSystem,
		},
		cfg.Chat,
		runtime.Logger,
		runtime.Pagination,
	)

	authSystem := auth.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	return &Domain{
		Intent:   intentSystem,
		Personas: personasSystem,
		Chat:     chatSystem,
		Auth:     authSystem,
	}, nil
}
