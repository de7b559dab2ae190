// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/companion/internal/config"
	"github.com/JaimeStill/companion/internal/infrastructure"
	"github.com/JaimeStill/companion/pkg/middleware"
	"github.com/JaimeStill/companion/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The intent system is registered with the lifecycle so its classifier loads
// at startup.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime, cfg)
	if err != nil {
		return nil, err
	}
	if err := domain.Intent.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("intent start failed: %w", err)
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.MaxBytes(cfg.API.MaxRequestSizeBytes()))

	return m, nil
}
