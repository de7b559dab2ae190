package intent_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/companion/internal/intent"
)

func TestBuildLabelSpaceBijection(t *testing.T) {
	examples := []intent.Example{
		{Text: "a", Label: "wave"},
		{Text: "b", Label: "bow"},
		{Text: "c", Label: "greeting"},
		{Text: "d", Label: "bow"},
		{Text: "e", Label: "인사"},
	}

	ls, err := intent.BuildLabelSpace(examples)
	if err != nil {
		t.Fatalf("BuildLabelSpace() error = %v", err)
	}

	want := []string{"bow", "greeting", "wave", "인사"}
	if got := ls.Labels(); !slices.Equal(got, want) {
		t.Fatalf("labels: got %v, want %v", got, want)
	}

	for _, l := range want {
		i, ok := ls.Index(l)
		if !ok {
			t.Fatalf("Index(%q) not found", l)
		}
		back, ok := ls.Label(i)
		if !ok || back != l {
			t.Errorf("round trip %q: got %q", l, back)
		}
	}

	if _, ok := ls.Label(len(want)); ok {
		t.Error("Label() out of range should report false")
	}
}

func TestBuildLabelSpaceErrors(t *testing.T) {
	tests := []struct {
		name     string
		examples []intent.Example
		want     error
	}{
		{"empty", nil, intent.ErrEmptyDataset},
		{"blank label", []intent.Example{{Text: "hi", Label: ""}}, intent.ErrInvalidExample},
		{"blank text", []intent.Example{{Text: "  ", Label: "greeting"}}, intent.ErrInvalidExample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := intent.BuildLabelSpace(tt.examples); !errors.Is(err, tt.want) {
				t.Errorf("error: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewLabelSpaceRejectsUnsorted(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   error
	}{
		{"unsorted", []string{"wave", "bow"}, intent.ErrInvalidExample},
		{"duplicate", []string{"bow", "bow"}, intent.ErrInvalidExample},
		{"blank label", []string{"", "bow"}, intent.ErrInvalidExample},
		{"empty", nil, intent.ErrEmptyDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := intent.NewLabelSpace(tt.labels); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
