package htmlform

import "strings"

// EscapeHTML escapes text for placement in HTML element content.
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
	)
	return r.Replace(text)
}

// EscapeAttr escapes text for placement inside an HTML attribute value
// (no apostrophe escaping, matching attributes that are always
// double-quoted in the markup this package emits).
func EscapeAttr(text string) string {
	if text == "" {
		return ""
	}
	r := strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"<", "&lt;",
		">", "&gt;",
	)
	return r.Replace(text)
}
