package personas_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", personas.ErrNotFound, http.StatusNotFound},
		{"duplicate", personas.ErrDuplicate, http.StatusConflict},
		{"invalid style", personas.ErrInvalidStyle, http.StatusBadRequest},
		{"invalid persona", personas.ErrInvalidPersona, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("find: %w", personas.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := personas.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestParseStyle(t *testing.T) {
	for _, s := range personas.Styles() {
		got, err := personas.ParseStyle(string(s))
		if err != nil {
			t.Errorf("ParseStyle(%q) error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStyle(%q) = %q", s, got)
		}
	}

	for _, bad := range []string{"", "Friend", "casual"} {
		if _, err := personas.ParseStyle(bad); !errors.Is(err, personas.ErrInvalidStyle) {
			t.Errorf("ParseStyle(%q) err = %v, want ErrInvalidStyle", bad, err)
		}
	}
}

func TestStyleUnmarshalJSON(t *testing.T) {
	var cmd personas.CreateCommand
	if err := json.Unmarshal([]byte(`{"name":"a","style":"business","instructions":"x"}`), &cmd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cmd.Style != personas.StyleBusiness {
		t.Errorf("style = %q, want business", cmd.Style)
	}

	err := json.Unmarshal([]byte(`{"style":"pirate"}`), &cmd)
	if !errors.Is(err, personas.ErrInvalidStyle) {
		t.Errorf("err = %v, want ErrInvalidStyle", err)
	}
}

func TestDefaultInstructions(t *testing.T) {
	for _, s := range personas.Styles() {
		text, err := personas.DefaultInstructions(s)
		if err != nil {
			t.Fatalf("DefaultInstructions(%q): %v", s, err)
		}
		if strings.TrimSpace(text) == "" {
			t.Errorf("DefaultInstructions(%q) is empty", s)
		}
	}

	friend, _ := personas.DefaultInstructions(personas.StyleFriend)
	if !strings.Contains(friend, "반말") {
		t.Errorf("friend instructions = %q, want informal register", friend)
	}

	if _, err := personas.DefaultInstructions("pirate"); !errors.Is(err, personas.ErrInvalidStyle) {
		t.Errorf("err = %v, want ErrInvalidStyle", err)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		f := personas.FiltersFromQuery(url.Values{
			"style":  {"polite"},
			"name":   {"formal"},
			"active": {"true"},
		})

		if f.Style == nil || *f.Style != personas.StylePolite {
			t.Errorf("Style = %v, want polite", f.Style)
		}
		if f.Name == nil || *f.Name != "formal" {
			t.Errorf("Name = %v, want formal", f.Name)
		}
		if f.Active == nil || !*f.Active {
			t.Errorf("Active = %v, want true", f.Active)
		}
	})

	t.Run("unknown style and bad bool ignored", func(t *testing.T) {
		f := personas.FiltersFromQuery(url.Values{
			"style":  {"pirate"},
			"active": {"maybe"},
		})

		if f.Style != nil {
			t.Errorf("Style = %v, want nil", f.Style)
		}
		if f.Active != nil {
			t.Errorf("Active = %v, want nil", f.Active)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "personas", "p").
		Project("style", "Style").
		Project("name", "Name").
		Project("active", "Active")

	t.Run("no filters", func(t *testing.T) {
		b := query.NewBuilder(projection)
		personas.Filters{}.Apply(b)
		sql, args := b.Build()

		want := "SELECT p.style, p.name, p.active FROM public.personas p"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("all filters", func(t *testing.T) {
		b := query.NewBuilder(projection)
		style := personas.StyleFriend
		personas.Filters{Style: &style, Name: ptr("buddy"), Active: ptr(true)}.Apply(b)
		sql, args := b.Build()

		if len(args) != 3 {
			t.Fatalf("args = %v, want 3", args)
		}
		if !strings.Contains(sql, "p.style = $1") {
			t.Errorf("sql = %q, want style condition", sql)
		}
		if args[1] != "%buddy%" {
			t.Errorf("args[1] = %v, want %%buddy%%", args[1])
		}
	})
}
