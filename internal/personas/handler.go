package personas

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/pkg/handlers"
	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/pagination"
	"github.com/JaimeStill/companion/pkg/routes"
)

const maxPersonaBody = 64 << 10

// Handler provides HTTP endpoints for persona operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StyleInstructions is the response of the effective instructions endpoint.
type StyleInstructions struct {
	Style        Style  `json:"style"`
	Instructions string `json:"instructions"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "personas"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for persona endpoints.
func (h *Handler) Routes() routes.Group {
	id := []*openapi.Parameter{openapi.PathParam("id", "Persona ID")}
	found := func(desc string) map[int]*openapi.Response {
		return map[int]*openapi.Response{
			200: openapi.ResponseJSON(desc, "Persona"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		}
	}

	return routes.Group{
		Prefix: "/personas",
		Tags:   []string{"Personas"},
		Routes: []routes.Route{
			{
				Method: "GET", Pattern: "", Handler: h.List,
				OpenAPI: &openapi.Operation{
					Summary: "List personas",
					Parameters: append(openapi.PageParams("Search name and description"),
						openapi.EnumQueryParam("style", "Filter by style", Styles()...),
						openapi.QueryParam("name", "string", "Filter by name", false),
						openapi.QueryParam("active", "boolean", "Filter by active flag", false),
					),
					Responses: map[int]*openapi.Response{200: {Description: "Page of personas"}},
				},
			},
			{
				Method: "GET", Pattern: "/styles", Handler: h.Styles,
				OpenAPI: &openapi.Operation{
					Summary:   "List known styles",
					Responses: map[int]*openapi.Response{200: {Description: "Styles"}},
				},
			},
			{
				Method: "GET", Pattern: "/{id}", Handler: h.Find,
				OpenAPI: &openapi.Operation{
					Summary:    "Find a persona",
					Parameters: id,
					Responses:  found("Persona"),
				},
			},
			{
				Method: "GET", Pattern: "/{style}/instructions", Handler: h.Instructions,
				OpenAPI: &openapi.Operation{
					Summary:    "Effective instructions for a style",
					Parameters: []*openapi.Parameter{openapi.StringPathParam("style", "Style")},
					Responses: map[int]*openapi.Response{
						200: {Description: "Instructions"},
						400: openapi.ResponseRef("BadRequest"),
					},
				},
			},
			{
				Method: "POST", Pattern: "", Handler: h.Create,
				OpenAPI: &openapi.Operation{
					Summary:     "Create a persona",
					RequestBody: openapi.RequestBodyJSON("PersonaCommand", true),
					Responses: map[int]*openapi.Response{
						201: openapi.ResponseJSON("Created persona", "Persona"),
						400: openapi.ResponseRef("BadRequest"),
						409: openapi.ResponseRef("Conflict"),
					},
				},
			},
			{
				Method: "PUT", Pattern: "/{id}", Handler: h.Update,
				OpenAPI: &openapi.Operation{
					Summary:     "Update a persona",
					Parameters:  id,
					RequestBody: openapi.RequestBodyJSON("PersonaCommand", true),
					Responses:   found("Updated persona"),
				},
			},
			{
				Method: "DELETE", Pattern: "/{id}", Handler: h.Delete,
				OpenAPI: &openapi.Operation{
					Summary:    "Delete a persona",
					Parameters: id,
					Responses: map[int]*openapi.Response{
						204: {Description: "Deleted"},
						404: openapi.ResponseRef("NotFound"),
					},
				},
			},
			{
				Method: "POST", Pattern: "/search", Handler: h.Search,
				OpenAPI: &openapi.Operation{
					Summary:   "Search personas",
					Responses: map[int]*openapi.Response{200: {Description: "Page of personas"}},
				},
			},
			{
				Method: "POST", Pattern: "/{id}/activate", Handler: h.Activate,
				OpenAPI: &openapi.Operation{
					Summary:    "Make a persona the active override for its style",
					Parameters: id,
					Responses:  found("Activated persona"),
				},
			},
			{
				Method: "POST", Pattern: "/{id}/deactivate", Handler: h.Deactivate,
				OpenAPI: &openapi.Operation{
					Summary:    "Return a style to its built-in instructions",
					Parameters: id,
					Responses:  found("Deactivated persona"),
				},
			},
		},
	}
}

// List returns a paginated list of personas with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Styles returns the known styles.
func (h *Handler) Styles(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Styles())
}

// Find returns a single persona by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	p, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Instructions returns the effective instructions for a style.
func (h *Handler) Instructions(w http.ResponseWriter, r *http.Request) {
	style, err := ParseStyle(r.PathValue("style"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	text, err := h.sys.Instructions(r.Context(), style)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StyleInstructions{Style: style, Instructions: text})
}

// Create processes a JSON body to create a persona.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[CreateCommand](w, r, maxPersonaBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	p, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, p)
}

// Update processes a JSON body to update a persona.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	cmd, err := handlers.DecodeJSON[UpdateCommand](w, r, maxPersonaBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	p, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Delete removes a persona by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SearchRequest](w, r, maxPersonaBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Activate makes a persona the active override for its style.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	p, err := h.sys.Activate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Deactivate clears the active flag so the style falls back to its
// built-in instructions.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	p, err := h.sys.Deactivate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}
