package utils

import "strings"

// TruncateForLog flattens s onto one line and caps it at limit runes,
// appending an ellipsis when something was cut. Prompts and model replies
// are multi-line, which breaks console log output.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
