package chat

import "github.com/JaimeStill/companion/pkg/openapi"

// Schemas returns the OpenAPI component schemas for chat payloads.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"SendCommand": {
			Type:     "object",
			Required: []string{"user_input"},
			Properties: map[string]*openapi.Schema{
				"conversation_id": {Type: "string", Format: "uuid", Description: "Omit to start a new conversation"},
				"user_input":      {Type: "string"},
				"style":           {Type: "string", Description: "friend, polite, business, or playful"},
			},
		},
		"Exchange": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"conversation_id": {Type: "string", Format: "uuid"},
				"response":        {Type: "string"},
				"style":           {Type: "string"},
				"sentiment": {
					Type:        "object",
					Description: "Null when sentiment analysis is disabled or failed",
					Properties: map[string]*openapi.Schema{
						"document_score":     {Type: "number"},
						"document_magnitude": {Type: "number"},
						"language":           {Type: "string"},
					},
				},
				"action": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"type":       {Type: "string", Description: "Null when no decision was made"},
						"category":   {Type: "string"},
						"intensity":  {Type: "string"},
						"similarity": {Type: "number"},
						"method":     {Type: "string"},
					},
				},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
	}
}
