package chat

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Transcript appends exchanges to a plain-text log file.
type Transcript struct {
	mu   sync.Mutex
	path string
}

// NewTranscript returns a transcript writing to path, or nil when path is empty.
func NewTranscript(path string) *Transcript {
	if path == "" {
		return nil
	}
	return &Transcript{path: path}
}

// Append writes one exchange. Safe for concurrent use.
func (t *Transcript) Append(at time.Time, input, response string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", at.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s: %s\n", SpeakerUser, input)
	fmt.Fprintf(&b, "%s: %s\n", SpeakerAssistant, response)
	b.WriteString(strings.Repeat("=", 40) + "\n")

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("write transcript: %w", err)
	}
	return f.Close()
}
