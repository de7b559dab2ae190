package intent

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Example is one labeled training utterance.
type Example struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

func (e Example) valid() bool {
	return strings.TrimSpace(e.Text) != "" && strings.TrimSpace(e.Label) != ""
}

var (
	textColumns  = []string{"text", "sentence", "utterance"}
	labelColumns = []string{"label", "intent"}
)

// ReadDataset loads labeled examples from a .csv or .jsonl file.
func ReadDataset(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".jsonl", ".ndjson":
		return ReadJSONL(f)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", filepath.Ext(path))
	}
}

// ReadCSV reads examples from CSV with a header row. The text column may be
// named text, sentence, or utterance; the label column label or intent.
func ReadCSV(r io.Reader) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	textIdx, labelIdx := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if textIdx < 0 && slices.Contains(textColumns, name) {
			textIdx = i
		}
		if labelIdx < 0 && slices.Contains(labelColumns, name) {
			labelIdx = i
		}
	}
	if textIdx < 0 || labelIdx < 0 {
		return nil, fmt.Errorf("csv header must name text and label columns: %v", header)
	}

	var examples []Example
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		ex := Example{
			Text:  strings.TrimSpace(record[textIdx]),
			Label: strings.TrimSpace(record[labelIdx]),
		}
		if !ex.valid() {
			return nil, fmt.Errorf("line %d: %w", line, ErrInvalidExample)
		}
		examples = append(examples, ex)
	}

	if len(examples) == 0 {
		return nil, ErrEmptyDataset
	}
	return examples, nil
}

// ReadJSONL reads one {"text": ..., "label": ...} object per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]Example, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var examples []Example
	for line := 1; scanner.Scan(); line++ {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var ex Example
		if err := json.Unmarshal([]byte(raw), &ex); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ex.Text = strings.TrimSpace(ex.Text)
		ex.Label = strings.TrimSpace(ex.Label)
		if !ex.valid() {
			return nil, fmt.Errorf("line %d: %w", line, ErrInvalidExample)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl: %w", err)
	}

	if len(examples) == 0 {
		return nil, ErrEmptyDataset
	}
	return examples, nil
}
