package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content holds no JSON value of the
// requested shape.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse unmarshals a model completion into T. The content is tried as-is,
// then as the body of a markdown code fence, then as the first balanced
// {...} object embedded in surrounding prose.
func Parse[T any](content string) (T, error) {
	content = strings.TrimSpace(content)

	candidates := []string{content}
	if m := jsonBlockRegex.FindStringSubmatch(content); len(m) >= 2 {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if obj, ok := firstObject(content); ok {
		candidates = append(candidates, obj)
	}

	for _, c := range candidates {
		var result T
		if err := json.Unmarshal([]byte(c), &result); err == nil {
			return result, nil
		}
	}

	var zero T
	return zero, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// firstObject returns the first brace-balanced object in s, skipping braces
// inside JSON strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
