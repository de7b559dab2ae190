package intent

import "github.com/JaimeStill/companion/pkg/openapi"

// Schemas returns the OpenAPI component schemas for intent payloads.
func Schemas() map[string]*openapi.Schema {
	sentiment := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"score":     {Type: "number", Description: "Polarity in [-1, 1]"},
			"magnitude": {Type: "number", Description: "Strength, non-negative"},
		},
	}

	return map[string]*openapi.Schema{
		"Sentiment": sentiment,
		"DecideRequest": {
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*openapi.Schema{
				"text":      {Type: "string"},
				"sentiment": openapi.SchemaRef("Sentiment"),
			},
		},
		"Decision": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"label":     {Type: "string", Description: "Null when no decision was made"},
				"category":  {Type: "string"},
				"score":     {Type: "number"},
				"method":    {Type: "string", Enum: []any{string(MethodClassifier), string(MethodMatcher), string(MethodNone)}},
				"intensity": {Type: "string", Enum: []any{string(IntensityWeak), string(IntensityNormal), string(IntensityStrong)}},
			},
		},
	}
}
