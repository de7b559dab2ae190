package intent

import (
	"fmt"
	"slices"
)

// LabelSpace is the ordered set of labels a classifier predicts over.
// A label's index is its position in byte-wise sorted order, so the same
// dataset always yields the same mapping.
type LabelSpace struct {
	labels []string
	index  map[string]int
}

// BuildLabelSpace derives the label space from the distinct labels of examples.
func BuildLabelSpace(examples []Example) (*LabelSpace, error) {
	if len(examples) == 0 {
		return nil, ErrEmptyDataset
	}

	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, ex := range examples {
		if !ex.valid() {
			return nil, ErrInvalidExample
		}
		if _, ok := seen[ex.Label]; ok {
			continue
		}
		seen[ex.Label] = struct{}{}
		labels = append(labels, ex.Label)
	}

	slices.Sort(labels)
	return newLabelSpace(labels), nil
}

// NewLabelSpace rebuilds a label space from a persisted label list.
// The list must be sorted and free of duplicates.
func NewLabelSpace(labels []string) (*LabelSpace, error) {
	if len(labels) == 0 {
		return nil, ErrEmptyDataset
	}
	for i := 1; i < len(labels); i++ {
		if labels[i-1] >= labels[i] {
			return nil, fmt.Errorf("%w: labels not strictly sorted at %q", ErrInvalidExample, labels[i])
		}
	}
	for _, l := range labels {
		if l == "" {
			return nil, ErrInvalidExample
		}
	}
	return newLabelSpace(slices.Clone(labels)), nil
}

func newLabelSpace(labels []string) *LabelSpace {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return &LabelSpace{labels: labels, index: index}
}

// Labels returns a copy of the ordered label list.
func (s *LabelSpace) Labels() []string {
	return slices.Clone(s.labels)
}

// Len returns the number of labels.
func (s *LabelSpace) Len() int {
	return len(s.labels)
}

// Index returns the position of label.
func (s *LabelSpace) Index(label string) (int, bool) {
	i, ok := s.index[label]
	return i, ok
}

// Label returns the label at position i.
func (s *LabelSpace) Label(i int) (string, bool) {
	if i < 0 || i >= len(s.labels) {
		return "", false
	}
	return s.labels[i], true
}
