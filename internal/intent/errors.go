package intent

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/companion/pkg/storage"
)

// Domain errors for training, artifact handling, and inference.
var (
	ErrEmptyDataset     = errors.New("dataset is empty")
	ErrInsufficientData = errors.New("label has fewer than 2 examples")
	ErrArtifactLoad     = errors.New("artifact load failed")
	ErrEncoding         = errors.New("text encoding failed")
	ErrInvalidExample   = errors.New("example requires non-empty text and label")
	ErrInvalidConfig    = errors.New("invalid training config")
	ErrInvalidAction    = errors.New("invalid action definition")
	ErrTrainingStopped  = errors.New("training stopped before completion")
	ErrNoArtifact       = errors.New("no promoted artifact")
	ErrRunNotFound      = errors.New("artifact run not found")
	ErrNotPromotable    = errors.New("run cannot be promoted")
	ErrLocked           = errors.New("artifact store is locked by another writer")
	ErrStorageDisabled  = errors.New("blob storage is not configured")
	ErrEmptyText        = errors.New("text must not be empty")
)

// MapHTTPStatus maps intent domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrRunNotFound) || errors.Is(err, ErrNoArtifact) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNotPromotable) || errors.Is(err, ErrLocked) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEncoding) || errors.Is(err, ErrInvalidExample) || errors.Is(err, ErrEmptyText) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrArtifactLoad) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrStorageDisabled) {
		return http.StatusServiceUnavailable
	}
	return storage.MapHTTPStatus(err)
}
