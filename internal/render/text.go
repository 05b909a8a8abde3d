package render

import "strings"

// InlineText flattens an HTML fragment into a single line of plain text.
// Used for reply-to labels, feed snippets and search results where block
// layout is noise.
func InlineText(raw string) string {
	text := HNToText(raw, 0)
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// Highlight wraps every case-insensitive occurrence of term in text using
// mark. Text outside the matches is returned unchanged.
func Highlight(text, term string, mark func(string) string) string {
	if term == "" || text == "" {
		return text
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(term)
	if len(lower) != len(text) {
		// Case folding shifted byte offsets; match case-sensitively instead.
		lower = text
		needle = term
	}

	var sb strings.Builder
	start := 0
	for {
		i := strings.Index(lower[start:], needle)
		if i < 0 {
			sb.WriteString(text[start:])
			return sb.String()
		}
		i += start
		sb.WriteString(text[start:i])
		sb.WriteString(mark(text[i : i+len(needle)]))
		start = i + len(needle)
	}
}
