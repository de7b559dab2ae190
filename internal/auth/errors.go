package auth

import (
	"errors"
	"net/http"
)

// Domain errors for auth operations.
var (
	ErrNotFound    = errors.New("user not found")
	ErrDuplicate   = errors.New("username already exists")
	ErrInvalidUser = errors.New("username is required and password must be at least 4 characters")
)

// MapHTTPStatus maps auth domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidUser) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
