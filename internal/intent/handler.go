package intent

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/companion/pkg/handlers"
	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/routes"
)

const maxDecideBody = 64 << 10

// DecideRequest is the body of the decide endpoint.
type DecideRequest struct {
	Text      string     `json:"text"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
}

// PublishResponse reports the blob key a run was published under.
type PublishResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Handler provides HTTP endpoints for intent decisions and artifact management.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "intent"),
	}
}

// Routes returns the route group definition for intent endpoints.
func (h *Handler) Routes() routes.Group {
	runID := []*openapi.Parameter{openapi.StringPathParam("id", "Run ID")}

	return routes.Group{
		Prefix: "/intent",
		Tags:   []string{"Intent"},
		Routes: []routes.Route{
			{
				Method: "POST", Pattern: "/decide", Handler: h.Decide,
				OpenAPI: &openapi.Operation{
					Summary:     "Decide the intent of a text",
					RequestBody: openapi.RequestBodyJSON("DecideRequest", true),
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Decision", "Decision"),
						400: openapi.ResponseRef("BadRequest"),
					},
				},
			},
			{
				Method: "GET", Pattern: "/status", Handler: h.Status,
				OpenAPI: &openapi.Operation{
					Summary:   "Serving classifier, actions, and capabilities",
					Responses: map[int]*openapi.Response{200: {Description: "Status"}},
				},
			},
		},
		Children: []routes.Group{
			{
				Prefix: "/artifacts",
				Tags:   []string{"Artifacts"},
				Routes: []routes.Route{
					{
						Method: "GET", Pattern: "", Handler: h.Runs,
						OpenAPI: &openapi.Operation{
							Summary:   "List training runs",
							Responses: map[int]*openapi.Response{200: {Description: "Runs, newest first"}},
						},
					},
					{
						Method: "GET", Pattern: "/published", Handler: h.Published,
						OpenAPI: &openapi.Operation{
							Summary:   "List bundles in blob storage",
							Responses: map[int]*openapi.Response{
								200: {Description: "Published bundles"},
								503: openapi.ResponseRef("ServiceUnavailable"),
							},
						},
					},
					{
						Method: "POST", Pattern: "/reload", Handler: h.Reload,
						OpenAPI: &openapi.Operation{
							Summary: "Reload the promoted run",
							Responses: map[int]*openapi.Response{
								200: {Description: "Loaded manifest"},
								404: openapi.ResponseRef("NotFound"),
							},
						},
					},
					{
						Method: "POST", Pattern: "/{id}/promote", Handler: h.Promote,
						OpenAPI: &openapi.Operation{
							Summary:    "Promote a run to serving",
							Parameters: runID,
							Responses: map[int]*openapi.Response{
								200: {Description: "Loaded manifest"},
								404: openapi.ResponseRef("NotFound"),
								409: openapi.ResponseRef("Conflict"),
							},
						},
					},
					{
						Method: "POST", Pattern: "/{id}/publish", Handler: h.Publish,
						OpenAPI: &openapi.Operation{
							Summary:    "Upload a run bundle to blob storage",
							Parameters: runID,
							Responses: map[int]*openapi.Response{
								200: {Description: "Blob key"},
								404: openapi.ResponseRef("NotFound"),
								503: openapi.ResponseRef("ServiceUnavailable"),
							},
						},
					},
					{
						Method: "POST", Pattern: "/{id}/fetch", Handler: h.Fetch,
						OpenAPI: &openapi.Operation{
							Summary:    "Download a run bundle from blob storage",
							Parameters: runID,
							Responses: map[int]*openapi.Response{
								204: {Description: "Run installed"},
								404: openapi.ResponseRef("NotFound"),
								503: openapi.ResponseRef("ServiceUnavailable"),
							},
						},
					},
				},
			},
		},
	}
}

// Decide returns the decision for the text in the request body.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[DecideRequest](w, r, maxDecideBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyText)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Decide(r.Context(), req.Text, req.Sentiment))
}

// Status returns the serving state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Status())
}

// Runs lists saved training runs.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.sys.Runs()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, runs)
}

// Published lists bundles available in blob storage.
func (h *Handler) Published(w http.ResponseWriter, r *http.Request) {
	blobs, err := h.sys.Published(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, blobs)
}

// Reload loads the promoted run into the serving registry.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	m, err := h.sys.Reload()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, m)
}

// Promote marks a run as current and reloads it.
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Promote(r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	m, err := h.sys.Reload()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, m)
}

// Publish uploads a run bundle to blob storage.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	key, err := h.sys.Publish(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, PublishResponse{ID: id, Key: key})
}

// Fetch installs a run bundle from blob storage into the local store.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Fetch(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
