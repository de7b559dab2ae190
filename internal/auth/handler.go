package auth

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/companion/pkg/handlers"
	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/routes"
)

const maxCredentialsBody = 4 << 10

// Handler provides HTTP endpoints for credential verification.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "auth"),
	}
}

// Routes returns the route group definition for auth endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Tags:   []string{"Auth"},
		Routes: []routes.Route{
			{
				Method: "POST", Pattern: "/verify", Handler: h.Verify,
				OpenAPI: &openapi.Operation{
					Summary:     "Verify a username and password",
					RequestBody: openapi.RequestBodyJSON("Credentials", true),
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Verification result", "Verification"),
						400: openapi.ResponseRef("BadRequest"),
					},
				},
			},
		},
	}
}

// Verify checks the posted credentials.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	creds, err := handlers.DecodeJSON[Credentials](w, r, maxCredentialsBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	ok, err := h.sys.Verify(r.Context(), creds.Username, creds.Password)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if !ok {
		h.logger.Warn("verification failed", "username", creds.Username)
	}
	handlers.RespondJSON(w, http.StatusOK, Verification{Username: creds.Username, Verified: ok})
}
