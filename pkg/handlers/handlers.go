// Package handlers provides JSON request and response helpers shared by HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

var (
	// ErrBodyTooLarge indicates a request body over the handler's limit.
	ErrBodyTooLarge = errors.New("request body too large")
	// ErrTrailingData indicates content after the first JSON value.
	ErrTrailingData = errors.New("unexpected data after JSON body")
)

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as {"error": "..."} with the given status code.
// Server errors log at error level; client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	level := slog.LevelWarn
	msg := "request rejected"
	if status >= http.StatusInternalServerError {
		level, msg = slog.LevelError, "request failed"
	}
	logger.Log(context.Background(), level, msg, "status", status, "error", err)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON decodes a single JSON value from the request body into T.
// Bodies larger than maxBytes fail with ErrBodyTooLarge; a maxBytes of zero
// disables the limit.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, error) {
	var v T
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(&v); err != nil {
		return v, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err != nil {
			return v, decodeError(err)
		}
		return v, ErrTrailingData
	}
	return v, nil
}

// DecodeStatus returns the HTTP status for an error from DecodeJSON.
func DecodeStatus(err error) int {
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("decode request: %w", err)
}
