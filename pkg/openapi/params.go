package openapi

const jsonContent = "application/json"

// SchemaRef returns a Schema with a $ref to the named component schema.
func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// ResponseRef returns a Response with a $ref to the named component response.
func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// RequestBodyJSON creates a JSON request body referencing the named schema.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{
		Required: required,
		Content:  map[string]*MediaType{jsonContent: {Schema: SchemaRef(schemaName)}},
	}
}

// ResponseJSON creates a JSON response referencing the named schema.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{
		Description: description,
		Content:     map[string]*MediaType{jsonContent: {Schema: SchemaRef(schemaName)}},
	}
}

func param(in, name, description string, required bool, schema *Schema) *Parameter {
	return &Parameter{
		Name:        name,
		In:          in,
		Required:    required,
		Description: description,
		Schema:      schema,
	}
}

// PathParam creates a required UUID path parameter.
func PathParam(name, description string) *Parameter {
	return param("path", name, description, true, &Schema{Type: "string", Format: "uuid"})
}

// StringPathParam creates a required free-form string path parameter.
func StringPathParam(name, description string) *Parameter {
	return param("path", name, description, true, &Schema{Type: "string"})
}

// QueryParam creates a query parameter with the given type.
func QueryParam(name, typ, description string, required bool) *Parameter {
	return param("query", name, description, required, &Schema{Type: typ})
}

// EnumQueryParam creates an optional string query parameter restricted to values.
func EnumQueryParam[T ~string](name, description string, values ...T) *Parameter {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return param("query", name, description, false, &Schema{Type: "string", Enum: enum})
}

// TimeQueryParam creates an optional RFC 3339 timestamp query parameter.
func TimeQueryParam(name, description string) *Parameter {
	return param("query", name, description, false, &Schema{Type: "string", Format: "date-time"})
}

// PageParams returns the page, page_size, search, and sort query parameters
// accepted by paginated list endpoints.
func PageParams(search string) []*Parameter {
	return []*Parameter{
		QueryParam("page", "integer", "Page number", false),
		QueryParam("page_size", "integer", "Items per page", false),
		QueryParam("search", "string", search, false),
		QueryParam("sort", "string", "Sort fields, - prefix for descending", false),
	}
}
