// Package personas manages the system prompts the companion speaks with.
// Each style has built-in instructions that a stored persona can override;
// at most one persona is active per style.
package personas

import (
	"strings"

	"github.com/google/uuid"
)

// Persona is a named instruction override for a style.
type Persona struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Style        Style     `json:"style"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// CreateCommand carries the data needed to create a persona.
type CreateCommand struct {
	Name         string  `json:"name"`
	Style        Style   `json:"style"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// UpdateCommand carries the data needed to update a persona.
type UpdateCommand struct {
	Name         string  `json:"name"`
	Style        Style   `json:"style"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

func validate(name string, style Style, text string) error {
	if _, err := ParseStyle(string(style)); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(text) == "" {
		return ErrInvalidPersona
	}
	return nil
}
