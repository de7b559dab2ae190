package personas

import (
	"errors"
	"net/http"
)

// Domain errors for persona operations.
var (
	ErrNotFound       = errors.New("persona not found")
	ErrDuplicate      = errors.New("persona name already exists")
	ErrInvalidStyle   = errors.New("style must be friend, polite, business, or playful")
	ErrInvalidPersona = errors.New("persona requires a name and instructions")
)

// MapHTTPStatus maps persona domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStyle) || errors.Is(err, ErrInvalidPersona) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
