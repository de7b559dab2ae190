package personas

import "github.com/JaimeStill/companion/pkg/openapi"

// Schemas returns the OpenAPI component schemas for persona payloads.
func Schemas() map[string]*openapi.Schema {
	styleEnum := []any{string(StyleFriend), string(StylePolite), string(StyleBusiness), string(StylePlayful)}

	return map[string]*openapi.Schema{
		"Persona": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"style":        {Type: "string", Enum: styleEnum},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
		"PersonaCommand": {
			Type:     "object",
			Required: []string{"name", "style", "instructions"},
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"style":        {Type: "string", Enum: styleEnum},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
			},
		},
	}
}
