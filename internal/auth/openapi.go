package auth

import "github.com/JaimeStill/companion/pkg/openapi"

// Schemas returns the OpenAPI component schemas for auth payloads.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Credentials": {
			Type:     "object",
			Required: []string{"username", "password"},
			Properties: map[string]*openapi.Schema{
				"username": {Type: "string"},
				"password": {Type: "string", Format: "password"},
			},
		},
		"Verification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"username": {Type: "string"},
				"verified": {Type: "boolean"},
			},
		},
	}
}
