package chat

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/query"
	"github.com/JaimeStill/companion/pkg/repository"
)

const columns = `id, conversation_id, speaker, content, style,
	intent_label, intent_category, intent_method, intent_score, intensity,
	sentiment_score, sentiment_magnitude, created_at`

var projection = query.
	NewProjectionMap("public", "chat_messages", "m").
	Project("id", "ID").
	Project("conversation_id", "ConversationID").
	Project("speaker", "Speaker").
	Project("content", "Content").
	Project("style", "Style").
	Project("intent_label", "IntentLabel").
	Project("intent_category", "IntentCategory").
	Project("intent_method", "IntentMethod").
	Project("intent_score", "IntentScore").
	Project("intensity", "Intensity").
	Project("sentiment_score", "SentimentScore").
	Project("sentiment_magnitude", "SentimentMagnitude").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "CreatedAt",
}

// Filters contains optional filtering criteria for message history queries.
type Filters struct {
	ConversationID *uuid.UUID     `json:"conversation_id,omitempty"`
	Speaker        *Speaker       `json:"speaker,omitempty"`
	Style          *string        `json:"style,omitempty"`
	IntentLabel    *string        `json:"intent_label,omitempty"`
	IntentCategory *string        `json:"intent_category,omitempty"`
	IntentMethod   *intent.Method `json:"intent_method,omitempty"`
	Since          *time.Time     `json:"since,omitempty"`
	Until          *time.Time     `json:"until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ConversationID", f.ConversationID).
		WhereEquals("Speaker", f.Speaker).
		WhereEquals("Style", f.Style).
		WhereEquals("IntentLabel", f.IntentLabel).
		WhereEquals("IntentCategory", f.IntentCategory).
		WhereEquals("IntentMethod", f.IntentMethod).
		WhereRange("CreatedAt", f.Since, f.Until)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("conversation_id"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.ConversationID = &id
		}
	}

	if s := values.Get("speaker"); s != "" {
		speaker := Speaker(s)
		f.Speaker = &speaker
	}

	if s := values.Get("style"); s != "" {
		f.Style = &s
	}

	if l := values.Get("intent_label"); l != "" {
		f.IntentLabel = &l
	}

	if c := values.Get("intent_category"); c != "" {
		f.IntentCategory = &c
	}

	if m := values.Get("intent_method"); m != "" {
		method := intent.Method(m)
		f.IntentMethod = &method
	}

	f.Since = parseTime(values.Get("since"))
	f.Until = parseTime(values.Get("until"))

	return f
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func scanMessage(s repository.Scanner) (Message, error) {
	var m Message
	err := s.Scan(
		&m.ID,
		&m.ConversationID,
		&m.Speaker,
		&m.Content,
		&m.Style,
		&m.IntentLabel,
		&m.IntentCategory,
		&m.IntentMethod,
		&m.IntentScore,
		&m.Intensity,
		&m.SentimentScore,
		&m.SentimentMagnitude,
		&m.CreatedAt,
	)
	return m, err
}
