package intent

import "fmt"

// Categories shown for the built-in actions.
const (
	CategoryGreeting = "greeting"
	CategoryThanks   = "thanks"
	CategoryFarewell = "farewell"
	CategoryOther    = "other"
)

// Action is a gesture the companion can perform, recognized by similarity
// to a small set of example phrases.
type Action struct {
	ID       string   `json:"id" toml:"id"`
	Phrases  []string `json:"phrases" toml:"phrases"`
	Category string   `json:"category" toml:"category"`
}

// DefaultActions returns the built-in action table in declaration order.
func DefaultActions() []Action {
	return []Action{
		{
			ID:       "wave_hand",
			Phrases:  []string{"안녕", "하이", "반가워요", "좋은 하루 보내", "hello", "hi there", "nice to meet you"},
			Category: CategoryGreeting,
		},
		{
			ID:       "bow",
			Phrases:  []string{"고마워", "감사해요", "정말 고맙습니다", "thank you", "thanks a lot"},
			Category: CategoryThanks,
		},
		{
			ID:       "wave_goodbye",
			Phrases:  []string{"잘 가", "또 봐", "이만 가볼게", "goodbye", "see you later"},
			Category: CategoryFarewell,
		},
	}
}

func validateActions(actions []Action) error {
	seen := make(map[string]struct{}, len(actions))
	for i, a := range actions {
		if a.ID == "" {
			return fmt.Errorf("%w: action %d has no id", ErrInvalidAction, i)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: duplicate action id %q", ErrInvalidAction, a.ID)
		}
		seen[a.ID] = struct{}{}

		if len(a.Phrases) == 0 {
			return fmt.Errorf("%w: action %q has no phrases", ErrInvalidAction, a.ID)
		}
	}
	return nil
}
