package embedding

import "errors"

var (
	// ErrEmptyInput indicates a text with no encodable content.
	ErrEmptyInput = errors.New("empty input text")
	// ErrUnknownProvider indicates an unsupported encoder provider name.
	ErrUnknownProvider = errors.New("unknown embedding provider")
	// ErrDimensionMismatch indicates a provider returned vectors of unexpected size.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
