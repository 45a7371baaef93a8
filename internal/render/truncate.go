package render

import "strings"

// maxTitleLen caps rendered titles before the ellipsis marker.
const maxTitleLen = 100

// Truncate shortens text to at most maxLen characters plus "...".
// It prefers cutting at the last space within the limit so a trailing
// partial word is dropped; a single run with no spaces is cut exactly at
// maxLen. Limits count runes, not bytes, so a multibyte title is never
// cut mid-character.
func Truncate(text string, maxLen int) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	// A result of a previous pass is at most maxLen+3 chars and ends with
	// the ellipsis marker. Leaving it alone keeps truncation idempotent.
	if strings.HasSuffix(text, "...") && len(runes) <= maxLen+3 {
		return text
	}
	prefix := string(runes[:maxLen])
	if i := strings.LastIndex(prefix, " "); i > 0 {
		prefix = prefix[:i]
	}
	return prefix + "..."
}
