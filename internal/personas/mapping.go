package personas

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/companion/pkg/query"
	"github.com/JaimeStill/companion/pkg/repository"
)

const columns = "id, name, style, instructions, description, active"

var projection = query.
	NewProjectionMap("public", "personas", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("style", "Style").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for persona queries.
// Style and Active match exactly; Name matches case-insensitively as a substring.
type Filters struct {
	Style  *Style  `json:"style,omitempty"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Style", f.Style).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown styles are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("style"); s != "" {
		if style, err := ParseStyle(s); err == nil {
			f.Style = &style
		}
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanPersona(s repository.Scanner) (Persona, error) {
	var p Persona
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Style,
		&p.Instructions,
		&p.Description,
		&p.Active,
	)
	return p, err
}
