package chat

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/companion/internal/personas"
)

// Domain errors for chat operations.
var (
	ErrNotFound      = errors.New("conversation not found")
	ErrDuplicate     = errors.New("message already exists")
	ErrEmptyInput    = errors.New("user_input must not be empty")
	ErrInputTooLong  = errors.New("user_input is too long")
	ErrCompletion    = errors.New("chat completion failed")
	ErrInvalidConfig = errors.New("invalid chat config")
)

// MapHTTPStatus maps chat domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInputTooLong) ||
		errors.Is(err, personas.ErrInvalidStyle) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrCompletion) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
