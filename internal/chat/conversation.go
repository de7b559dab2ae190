package chat

import "github.com/tmc/langchaingo/llms"

// Turn is a single message in a conversation window.
type Turn struct {
	Speaker Speaker
	Content string
}

// Conversation is a bounded window over the most recent turns of a
// conversation. Appending beyond capacity evicts the oldest turns.
// A user message and its reply count as two turns.
type Conversation struct {
	maxTurns int
	turns    []Turn
}

// NewConversation creates a window holding at most maxTurns turns, seeded
// with history in chronological order. A non-positive maxTurns keeps nothing.
func NewConversation(maxTurns int, history ...Turn) *Conversation {
	c := &Conversation{maxTurns: max(maxTurns, 0)}
	for _, t := range history {
		c.Append(t)
	}
	return c
}

// MaxTurns returns the window capacity.
func (c *Conversation) MaxTurns() int {
	return c.maxTurns
}

// Append adds t, evicting the oldest turn when the window is full.
func (c *Conversation) Append(t Turn) {
	if c.maxTurns == 0 {
		return
	}
	if len(c.turns) == c.maxTurns {
		copy(c.turns, c.turns[1:])
		c.turns = c.turns[:len(c.turns)-1]
	}
	c.turns = append(c.turns, t)
}

// Turns returns the window contents, oldest first.
func (c *Conversation) Turns() []Turn {
	return append([]Turn(nil), c.turns...)
}

// Prompt builds the completion request: the system instructions, the window,
// and the new user input.
func (c *Conversation) Prompt(system, input string) []llms.MessageContent {
	msgs := make([]llms.MessageContent, 0, len(c.turns)+2)
	if system != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	for _, t := range c.turns {
		role := llms.ChatMessageTypeHuman
		if t.Speaker == SpeakerAssistant {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, t.Content))
	}
	return append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, input))
}
