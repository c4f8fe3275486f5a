package storage

import "strings"

const titleRuneLimit = 30

// DeriveTitle builds a provisional title from the first user message. Longer
// inputs are cut to the first 30 characters with a "..." suffix; shorter ones
// pass through unchanged.
func DeriveTitle(firstMessage string) string {
	name := strings.Join(strings.Fields(firstMessage), " ")
	if name == "" {
		return DefaultTitle
	}

	runes := []rune(name)
	if len(runes) <= titleRuneLimit {
		return name
	}
	return string(runes[:titleRuneLimit]) + "..."
}
