// Package render turns compressed records into bounded XML-ish markup
// blocks for the briefing document.
package render

import "strings"

// Escape replaces the five reserved markup characters with named character
// references. "&" is replaced first so the other substitutions are not
// re-escaped. This is a single pass: escaping already-escaped text will
// escape the leading "&" of existing entities again.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
