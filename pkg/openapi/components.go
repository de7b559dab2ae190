package openapi

import "maps"

// errorResponses are the shared error responses every handler writes
// through handlers.RespondError.
var errorResponses = map[string]string{
	"BadRequest":         "Invalid request",
	"NotFound":           "Resource not found",
	"Conflict":           "Resource conflict",
	"BadGateway":         "Upstream model or analyzer failed",
	"ServiceUnavailable": "Dependency not configured or not ready",
}

// NewComponents creates Components with the paging schema and the shared
// error responses.
func NewComponents() *Components {
	c := &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: Name,-CreatedAt"},
				},
			},
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: make(map[string]*Response, len(errorResponses)),
	}

	for name, desc := range errorResponses {
		c.Responses[name] = ResponseJSON(desc, "Error")
	}
	return c
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
