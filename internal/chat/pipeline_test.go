package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/companion/internal/chat"
	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/internal/personas"
	"github.com/JaimeStill/companion/pkg/sentiment"
)

func defaultConfig(t *testing.T) chat.Config {
	t.Helper()
	var cfg chat.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return cfg
}

func TestPipelinePrepare(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.MaxInputRunes = 5
	p := chat.NewPipeline(&chat.Runtime{Logger: discard()}, cfg)

	tests := []struct {
		name      string
		cmd       chat.SendCommand
		wantInput string
		wantStyle personas.Style
		wantErr   error
	}{
		{"default style", chat.SendCommand{Input: "  안녕  "}, "안녕", personas.StylePlayful, nil},
		{"explicit style", chat.SendCommand{Input: "hi", Style: personas.StylePolite}, "hi", personas.StylePolite, nil},
		{"blank", chat.SendCommand{Input: " \n "}, "", "", chat.ErrEmptyInput},
		{"runes not bytes", chat.SendCommand{Input: "안녕하세요"}, "안녕하세요", personas.StylePlayful, nil},
		{"too long", chat.SendCommand{Input: "안녕하세요!"}, "", "", chat.ErrInputTooLong},
		{"unknown style", chat.SendCommand{Input: "hi", Style: "pirate"}, "", "", personas.ErrInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, style, err := p.Prepare(tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if input != tt.wantInput || style != tt.wantStyle {
				t.Errorf("got (%q, %q), want (%q, %q)", input, style, tt.wantInput, tt.wantStyle)
			}
		})
	}
}

func TestPipelineRun(t *testing.T) {
	model := &fakeModel{reply: "  안녕! 반가워  "}
	decider := &fakeDecider{}
	rt := &chat.Runtime{
		Model:     model,
		Sentiment: &fakeAnalyzer{result: &sentiment.Result{Score: 0.8, Magnitude: 0.9}},
		Intent:    decider,
		Personas:  &fakeInstructor{text: "custom persona"},
		Logger:    discard(),
	}
	p := chat.NewPipeline(rt, defaultConfig(t))

	window := chat.NewConversation(4, chat.Turn{Speaker: chat.SpeakerUser, Content: "earlier"})
	result, err := p.Run(context.Background(), window, "안녕", personas.StyleFriend)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Reply != "안녕! 반가워" {
		t.Errorf("reply = %q", result.Reply)
	}
	if result.Sentiment == nil || result.Sentiment.Score != 0.8 {
		t.Errorf("sentiment = %+v, want score 0.8", result.Sentiment)
	}
	if decider.text != "안녕" {
		t.Errorf("decided on %q, want the user input", decider.text)
	}
	if decider.sentiment == nil || decider.sentiment.Magnitude != 0.9 {
		t.Errorf("decider sentiment = %+v", decider.sentiment)
	}
	if result.Decision.Intensity != intent.IntensityStrong {
		t.Errorf("intensity = %q, want strong", result.Decision.Intensity)
	}

	if len(model.messages) != 3 {
		t.Fatalf("prompt has %d messages, want 3", len(model.messages))
	}
	system := model.messages[0].Parts[0].(llms.TextContent).Text
	if system != "custom persona" {
		t.Errorf("system prompt = %q", system)
	}
}

func TestPipelineSentimentFailureIsNotFatal(t *testing.T) {
	decider := &fakeDecider{}
	rt := &chat.Runtime{
		Model:     &fakeModel{reply: "ok"},
		Sentiment: &fakeAnalyzer{err: errors.New("quota exceeded")},
		Intent:    decider,
		Logger:    discard(),
	}

	result, err := chat.NewPipeline(rt, defaultConfig(t)).
		Run(context.Background(), chat.NewConversation(2), "hi", personas.StylePolite)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Sentiment != nil {
		t.Errorf("sentiment = %+v, want nil", result.Sentiment)
	}
	if decider.sentiment != nil {
		t.Error("decider received a sentiment")
	}
	if result.Decision.Intensity != intent.IntensityNormal {
		t.Errorf("intensity = %q, want normal", result.Decision.Intensity)
	}
}

func TestPipelineCompletionFailure(t *testing.T) {
	rt := &chat.Runtime{
		Model:  &fakeModel{err: errors.New("connection refused")},
		Intent: &fakeDecider{},
		Logger: discard(),
	}

	_, err := chat.NewPipeline(rt, defaultConfig(t)).
		Run(context.Background(), chat.NewConversation(2), "hi", personas.StylePolite)
	if !errors.Is(err, chat.ErrCompletion) {
		t.Fatalf("err = %v, want ErrCompletion", err)
	}

	rt.Model = &fakeModel{reply: "   "}
	_, err = chat.NewPipeline(rt, defaultConfig(t)).
		Run(context.Background(), chat.NewConversation(2), "hi", personas.StylePolite)
	if !errors.Is(err, chat.ErrCompletion) {
		t.Fatalf("empty reply err = %v, want ErrCompletion", err)
	}
}

func TestPipelineDecideOnReply(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.DecideOn = chat.DecideOnReply

	decider := &fakeDecider{}
	rt := &chat.Runtime{
		Model:  &fakeModel{reply: "또 봐!"},
		Intent: decider,
		Logger: discard(),
	}

	if _, err := chat.NewPipeline(rt, cfg).Run(context.Background(), chat.NewConversation(2), "잘 있어", personas.StyleFriend); err != nil {
		t.Fatalf("run: %v", err)
	}
	if decider.text != "또 봐!" {
		t.Errorf("decided on %q, want the reply", decider.text)
	}
}

func TestPipelinePersonaFallback(t *testing.T) {
	model := &fakeModel{reply: "ok"}
	rt := &chat.Runtime{
		Model:    model,
		Intent:   &fakeDecider{},
		Personas: &fakeInstructor{err: errors.New("database unavailable")},
		Logger:   discard(),
	}

	if _, err := chat.NewPipeline(rt, defaultConfig(t)).Run(context.Background(), chat.NewConversation(0), "hi", personas.StyleBusiness); err != nil {
		t.Fatalf("run: %v", err)
	}

	want, _ := personas.DefaultInstructions(personas.StyleBusiness)
	got := model.messages[0].Parts[0].(llms.TextContent).Text
	if got != want {
		t.Errorf("system prompt = %q, want built-in %q", got, want)
	}
}

func TestPipelineInvalidStyleFromInstructor(t *testing.T) {
	rt := &chat.Runtime{
		Model:    &fakeModel{reply: "ok"},
		Intent:   &fakeDecider{},
		Personas: &fakeInstructor{err: personas.ErrInvalidStyle},
		Logger:   discard(),
	}

	_, err := chat.NewPipeline(rt, defaultConfig(t)).Run(context.Background(), chat.NewConversation(0), "hi", "pirate")
	if !errors.Is(err, personas.ErrInvalidStyle) {
		t.Fatalf("err = %v, want ErrInvalidStyle", err)
	}
	if !strings.Contains(err.Error(), "style") {
		t.Errorf("err = %q", err)
	}
}
