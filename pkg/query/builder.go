package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// condition renders one WHERE clause. bind records an argument and returns
// its positional placeholder.
type condition func(bind func(arg any) string) string

// SortField represents a single column in an ORDER BY clause.
// Field is the logical field name (mapped via ProjectionMap).
type SortField struct {
	Field      string
	Descending bool
}

// Builder constructs SELECT statements over a ProjectionMap. Placeholders
// are numbered when a query is built, so filters chain in any order.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string such as "Name,-CreatedAt".
// A "-" prefix sorts descending. Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build returns a SELECT query with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return b.selectFrom() + where + b.order(), args
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.Table() + where, args
}

// BuildPage returns a paginated SELECT query. Pages are 1-indexed and a
// page below 1 reads the first page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	offset := max(page-1, 0) * pageSize
	sql := fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d", b.selectFrom(), where, b.order(), pageSize, offset)
	return sql, args
}

// BuildSingle returns a SELECT query for a single record by ID.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf("%s WHERE %s = $1", b.selectFrom(), b.projection.Column(idField))
	return sql, []any{id}
}

// OrderByFields sets the sort order, overriding default sort fields.
// Fields the projection does not map are dropped.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = b.projection.Known(fields)
	return b
}

// WhereContains adds a case-insensitive ILIKE condition. No-op for nil or empty values.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.compare(field, "ILIKE", "%"+*value+"%")
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.compare(field, "=", value)
}

// WhereRange bounds field to the half-open interval [from, to).
// A nil bound is omitted, so either end may be open.
func (b *Builder) WhereRange(field string, from, to any) *Builder {
	if !isNil(from) {
		b.compare(field, ">=", from)
	}
	if !isNil(to) {
		b.compare(field, "<", to)
	}
	return b
}

// WhereSearch adds an OR of ILIKE conditions across fields. No-op for nil or
// empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}

	b.conditions = append(b.conditions, func(bind func(any) string) string {
		clauses := make([]string, len(cols))
		for i, col := range cols {
			clauses[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(clauses, " OR ") + ")"
	})
	return b
}

func (b *Builder) compare(field, op string, value any) *Builder {
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, func(bind func(any) string) string {
		return col + " " + op + " " + bind(value)
	})
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.Table()
}

func (b *Builder) order() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		parts[i] = b.projection.Column(f.Field) + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(arg any) string {
		args = append(args, arg)
		return "$" + strconv.Itoa(len(args))
	}

	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = c(bind)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
