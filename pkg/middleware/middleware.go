// Package middleware holds the HTTP middleware mounted on the API module.
package middleware

import (
	"net/http"
	"slices"
)

// Func wraps a handler.
type Func = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw Func)
	Apply(handler http.Handler) http.Handler
}

type stack []Func

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn Func) {
	*s = append(*s, fn)
}

// Apply wraps handler so the first middleware passed to Use runs first.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, fn := range slices.Backward(*s) {
		handler = fn(handler)
	}
	return handler
}
