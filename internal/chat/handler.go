package chat

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/pkg/handlers"
	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/pagination"
	"github.com/JaimeStill/companion/pkg/routes"
)

const maxSendBody = 256 << 10

// Handler provides HTTP endpoints for chat operations.
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

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "chat"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for chat endpoints.
func (h *Handler) Routes() routes.Group {
	conversationID := []*openapi.Parameter{openapi.PathParam("id", "Conversation ID")}

	return routes.Group{
		Prefix: "/chat",
		Tags:   []string{"Chat"},
		Routes: []routes.Route{
			{
				Method: "POST", Pattern: "", Handler: h.Send,
				OpenAPI: &openapi.Operation{
					Summary:     "Send a message and receive the companion's reply",
					RequestBody: openapi.RequestBodyJSON("SendCommand", true),
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Exchange", "Exchange"),
						400: openapi.ResponseRef("BadRequest"),
						502: openapi.ResponseRef("BadGateway"),
					},
				},
			},
			{
				Method: "GET", Pattern: "/history", Handler: h.History,
				OpenAPI: &openapi.Operation{
					Summary: "List stored messages",
					Parameters: append(openapi.PageParams("Search message content"),
						openapi.QueryParam("conversation_id", "string", "Filter by conversation", false),
						openapi.EnumQueryParam("speaker", "Filter by speaker", SpeakerUser, SpeakerAssistant),
						openapi.QueryParam("intent_category", "string", "Filter by intent category", false),
						openapi.TimeQueryParam("since", "Messages created at or after"),
						openapi.TimeQueryParam("until", "Messages created before"),
					),
					Responses: map[int]*openapi.Response{200: {Description: "Page of messages"}},
				},
			},
			{
				Method: "POST", Pattern: "/history/search", Handler: h.Search,
				OpenAPI: &openapi.Operation{
					Summary:   "Search stored messages",
					Responses: map[int]*openapi.Response{200: {Description: "Page of messages"}},
				},
			},
			{
				Method: "GET", Pattern: "/conversations/{id}", Handler: h.Conversation,
				OpenAPI: &openapi.Operation{
					Summary:    "Full conversation, oldest first",
					Parameters: conversationID,
					Responses: map[int]*openapi.Response{
						200: {Description: "Messages"},
						404: openapi.ResponseRef("NotFound"),
					},
				},
			},
			{
				Method: "DELETE", Pattern: "/conversations/{id}", Handler: h.Delete,
				OpenAPI: &openapi.Operation{
					Summary:    "Delete a conversation",
					Parameters: conversationID,
					Responses: map[int]*openapi.Response{
						204: {Description: "Deleted"},
						404: openapi.ResponseRef("NotFound"),
					},
				},
			},
		},
	}
}

// Send runs a user turn and returns the exchange.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[SendCommand](w, r, maxSendBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	exchange, err := h.sys.Send(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, exchange)
}

// History returns a paginated list of messages with optional query parameter filters.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.History(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SearchRequest](w, r, maxSendBody)
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.History(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Conversation returns every message of a conversation.
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	msgs, err := h.sys.Conversation(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, msgs)
}

// Delete removes a conversation and all of its messages.
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
