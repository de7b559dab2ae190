// Package chat runs the conversational exchange: it scores the user's
// sentiment, asks the chat model for a reply in the selected persona's voice,
// decides the intent of the turn, and persists both sides of the exchange.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/sentiment"
)

// Speaker identifies who produced a message.
type Speaker string

// Message speakers.
const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Message is a persisted chat message. Intent and sentiment columns are set
// on the message the decision was made on and null elsewhere.
type Message struct {
	ID                 uuid.UUID         `json:"id"`
	ConversationID     uuid.UUID         `json:"conversation_id"`
	Speaker            Speaker           `json:"speaker"`
	Content            string            `json:"content"`
	Style              personas.Style    `json:"style"`
	IntentLabel        *string           `json:"intent_label"`
	IntentCategory     *string           `json:"intent_category"`
	IntentMethod       *intent.Method    `json:"intent_method"`
	IntentScore        *float64          `json:"intent_score"`
	Intensity          *intent.Intensity `json:"intensity"`
	SentimentScore     *float64          `json:"sentiment_score"`
	SentimentMagnitude *float64          `json:"sentiment_magnitude"`
	CreatedAt          time.Time         `json:"created_at"`
}

// SendCommand is a user turn. A nil ConversationID starts a new conversation;
// an empty Style uses the configured default.
type SendCommand struct {
	ConversationID *uuid.UUID     `json:"conversation_id,omitempty"`
	Input          string         `json:"user_input"`
	Style          personas.Style `json:"style,omitempty"`
}

// Action is the intent decision reported to the client.
type Action struct {
	Type       *string          `json:"type"`
	Category   string           `json:"category"`
	Intensity  intent.Intensity `json:"intensity"`
	Similarity float64          `json:"similarity"`
	Method     intent.Method    `json:"method"`
}

// Exchange is the result of a completed turn.
type Exchange struct {
	ConversationID uuid.UUID         `json:"conversation_id"`
	Response       string            `json:"response"`
	Style          personas.Style    `json:"style"`
	Sentiment      *sentiment.Result `json:"sentiment"`
	Action         Action            `json:"action"`
	CreatedAt      time.Time         `json:"created_at"`
}

func actionOf(d intent.Decision) Action {
	return Action{
		Type:       d.Label,
		Category:   d.Category,
		Intensity:  d.Intensity,
		Similarity: d.Score,
		Method:     d.Method,
	}
}
