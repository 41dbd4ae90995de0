package analysis

import (
	"errors"
	"strings"
)

var (
	// ErrNoJSON means the generated text held no {...} span at all.
	ErrNoJSON = errors.New("output format invalid: no JSON found")
	// ErrInvalidJSON means a span was found but does not parse as an object.
	ErrInvalidJSON = errors.New("output format invalid: malformed JSON")
)

// ExtractJSON returns the span from the first '{' to the last '}' of text.
// Prose and markdown fences around the payload fall outside the span. A
// brace-delimited aside before the payload is captured too and fails to parse.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}
