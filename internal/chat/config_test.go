package chat_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/companion/internal/chat"
)

func TestConfigDefaults(t *testing.T) {
	var cfg chat.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.HistoryTurns != 10 {
		t.Errorf("history_turns = %d, want 10", cfg.HistoryTurns)
	}
	if cfg.MaxInputRunes != 2000 {
		t.Errorf("max_input_runes = %d, want 2000", cfg.MaxInputRunes)
	}
	if cfg.DecideOn != chat.DecideOnInput {
		t.Errorf("decide_on = %q, want input", cfg.DecideOn)
	}
	if cfg.Style != "playful" {
		t.Errorf("style = %q, want playful", cfg.Style)
	}
	if cfg.TranscriptPath != "" {
		t.Errorf("transcript_path = %q, want empty", cfg.TranscriptPath)
	}
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("TEST_CHAT_TURNS", "4")
	t.Setenv("TEST_CHAT_DECIDE_ON", "reply")
	t.Setenv("TEST_CHAT_STYLE", "business")

	var cfg chat.Config
	err := cfg.Finalize(&chat.Env{
		HistoryTurns: "TEST_CHAT_TURNS",
		DecideOn:     "TEST_CHAT_DECIDE_ON",
		Style:        "TEST_CHAT_STYLE",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.HistoryTurns != 4 || cfg.DecideOn != chat.DecideOnReply || cfg.Style != "business" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := chat.Config{HistoryTurns: 10, Style: "playful"}
	cfg.Merge(&chat.Config{Style: "friend", TranscriptPath: "chat_log.txt"})

	if cfg.HistoryTurns != 10 {
		t.Errorf("history_turns = %d, want unchanged", cfg.HistoryTurns)
	}
	if cfg.Style != "friend" || cfg.TranscriptPath != "chat_log.txt" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  chat.Config
	}{
		{"negative history", chat.Config{HistoryTurns: -1}},
		{"bad decide_on", chat.Config{DecideOn: "both"}},
		{"bad style", chat.Config{Style: "pirate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); !errors.Is(err, chat.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
