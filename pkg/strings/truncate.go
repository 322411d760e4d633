package strings

import (
	"fmt"
	"strings"
)

// PreviewMaxLen is the number of runes kept when a value is previewed inside
// a diagnostic message.
const PreviewMaxLen = 200

// MinTruncateLen is the minimum maxLen value accepted by the truncation helpers.
// Values smaller than this would not leave room for one character plus "...".
const MinTruncateLen = 4

// Truncate cuts s to at most maxLen runes, appending "..." when it had to cut.
// Whitespace is left untouched so multi-line payloads keep their shape.
//
// maxLen values below MinTruncateLen are clamped to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// SingleLine collapses all whitespace runs (newlines, tabs, repeated spaces)
// into single spaces and then truncates the result like Truncate.
func SingleLine(s string, maxLen int) string {
	return Truncate(strings.Join(strings.Fields(s), " "), maxLen)
}

// Preview renders any value with %v and cuts the result to maxLen runes without
// an ellipsis, matching how response previews are embedded in error strings.
func Preview(value interface{}, maxLen int) string {
	if maxLen < 1 {
		maxLen = 1
	}
	runes := []rune(fmt.Sprintf("%v", value))
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return string(runes)
}
