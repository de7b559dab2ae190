package openapi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalJSON serializes the spec to indented JSON bytes.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// Encode writes the spec to w as indented JSON followed by a newline.
func Encode(w io.Writer, spec *Spec) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(spec)
}

// WriteJSON writes the spec to filename, replacing any existing file.
func WriteJSON(spec *Spec, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Encode(f, spec); err != nil {
		f.Close()
		return fmt.Errorf("encode spec: %w", err)
	}
	return f.Close()
}
