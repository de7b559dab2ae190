package chat_test

import (
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/companion/internal/chat"
)

func TestConversationEvictsOldest(t *testing.T) {
	c := chat.NewConversation(3,
		chat.Turn{Speaker: chat.SpeakerUser, Content: "1"},
		chat.Turn{Speaker: chat.SpeakerAssistant, Content: "2"},
	)
	c.Append(chat.Turn{Speaker: chat.SpeakerUser, Content: "3"})
	c.Append(chat.Turn{Speaker: chat.SpeakerAssistant, Content: "4"})

	turns := c.Turns()
	if len(turns) != 3 {
		t.Fatalf("len = %d, want 3", len(turns))
	}
	for i, want := range []string{"2", "3", "4"} {
		if turns[i].Content != want {
			t.Errorf("turns[%d] = %q, want %q", i, turns[i].Content, want)
		}
	}
}

func TestConversationZeroCapacity(t *testing.T) {
	c := chat.NewConversation(0, chat.Turn{Speaker: chat.SpeakerUser, Content: "x"})
	if len(c.Turns()) != 0 {
		t.Errorf("turns = %v, want empty", c.Turns())
	}

	c = chat.NewConversation(-2)
	if c.MaxTurns() != 0 {
		t.Errorf("MaxTurns = %d, want 0", c.MaxTurns())
	}
}

func TestConversationPrompt(t *testing.T) {
	c := chat.NewConversation(4,
		chat.Turn{Speaker: chat.SpeakerUser, Content: "안녕"},
		chat.Turn{Speaker: chat.SpeakerAssistant, Content: "반가워!"},
	)

	msgs := c.Prompt("be nice", "뭐해?")

	wantRoles := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	if len(msgs) != len(wantRoles) {
		t.Fatalf("len = %d, want %d", len(msgs), len(wantRoles))
	}
	for i, role := range wantRoles {
		if msgs[i].Role != role {
			t.Errorf("msgs[%d].Role = %q, want %q", i, msgs[i].Role, role)
		}
	}

	last, ok := msgs[3].Parts[0].(llms.TextContent)
	if !ok || last.Text != "뭐해?" {
		t.Errorf("last part = %#v, want user input", msgs[3].Parts[0])
	}
}

func TestConversationPromptWithoutSystem(t *testing.T) {
	msgs := chat.NewConversation(2).Prompt("", "hi")
	if len(msgs) != 1 || msgs[0].Role != llms.ChatMessageTypeHuman {
		t.Errorf("msgs = %#v, want single human message", msgs)
	}
}
