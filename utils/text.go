package utils

import "strings"

const (
	IntentTextLimit = 40
	EmailTextLimit  = 20
)

// Truncate shortens s to limit runes and marks the cut with "...".
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "..."
}
