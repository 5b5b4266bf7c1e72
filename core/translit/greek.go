package translit

import "strings"

// greekText substitutes the Greek table over the whole of text and applies
// the Greek repairs inside the span.
func greekText(t *Table, text string, span Span) (string, error) {
	// Combining marks after the last Greek letter belong to it, so a rule
	// ending in such a mark still matches across the span edge.
	prefix, body, suffix := span.WithTrailingMarks(text).Split(text)

	prefix = Substitute(prefix, t)
	body = Substitute(body, t)
	suffix = Substitute(suffix, t)

	body = strings.ReplaceAll(body, "aui", "awi")

	out := prefix + body + suffix
	if f := scanText(out, Greek.Marker()); f != nil {
		return "", &ResidualScriptError{Script: Greek, Char: f.Char, Name: f.Name, Offset: runeOffset(out, f)}
	}

	switch {
	case strings.HasPrefix(body, "ie"):
		body = "ye" + body[2:]
	case strings.HasPrefix(body, "Ie"):
		body = "Ye" + body[2:]
	}
	return prefix + body + suffix, nil
}
