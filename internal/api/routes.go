package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/companion/internal/auth"
	"github.com/JaimeStill/companion/internal/chat"
	"github.com/JaimeStill/companion/internal/config"
	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/routes"
)

// Groups returns the route groups of every domain system.
func Groups(domain *Domain) []routes.Group {
	return []routes.Group{
		domain.Chat.Handler().Routes(),
		domain.Intent.Handler().Routes(),
		domain.Personas.Handler().Routes(),
		domain.Auth.Handler().Routes(),
	}
}

// Spec builds the OpenAPI document describing groups mounted under the API base path.
func Spec(cfg *config.Config, groups ...routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.Server(cfg.API.BasePath))

	for _, schemas := range []map[string]*openapi.Schema{
		chat.Schemas(),
		intent.Schemas(),
		personas.Schemas(),
		auth.Schemas(),
	} {
		spec.Components.AddSchemas(schemas)
	}

	routes.Describe(spec, "", groups...)
	return spec
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := Groups(domain)
	routes.Register(mux, groups...)

	specBytes, err := openapi.MarshalJSON(Spec(cfg, groups...))
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))
	return nil
}
