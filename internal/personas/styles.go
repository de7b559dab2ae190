package personas

import (
	"encoding/json"
	"slices"
)

// Style is a conversational register the companion answers in.
type Style string

// Known styles.
const (
	StyleFriend   Style = "friend"
	StylePolite   Style = "polite"
	StyleBusiness Style = "business"
	StylePlayful  Style = "playful"
)

var styles = []Style{
	StyleFriend,
	StylePolite,
	StyleBusiness,
	StylePlayful,
}

// Styles returns the known styles.
func Styles() []Style {
	return styles
}

// UnmarshalJSON validates that the decoded string is a known style.
func (s *Style) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStyle(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStyle validates a string as a known style.
func ParseStyle(s string) (Style, error) {
	v := Style(s)
	if !slices.Contains(styles, v) {
		return "", ErrInvalidStyle
	}
	return v, nil
}
