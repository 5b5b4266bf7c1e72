package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// Span is the run of text from the first to the last codepoint of a script,
// as codepoint indexes with End exclusive.
type Span struct {
	Start int
	End   int
}

// Len returns the number of codepoints in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Split cuts text into the part before the span, the span itself and the
// part after it.
func (s Span) Split(text string) (prefix, body, suffix string) {
	start, end := -1, len(text)
	i := 0
	for off := range text {
		if i == s.Start {
			start = off
		}
		if i == s.End {
			end = off
			break
		}
		i++
	}
	if start < 0 {
		return text, "", ""
	}
	return text[:start], text[start:end], text[end:]
}

// WithTrailingMarks extends the span over the nonspacing marks that
// directly follow it in text.
func (s Span) WithTrailingMarks(text string) Span {
	i := 0
	for _, r := range text {
		if i >= s.End {
			if !unicode.Is(unicode.Mn, r) {
				break
			}
			s.End++
		}
		i++
	}
	return s
}

// FindSpan locates the first and last codepoint of script in text.
// Codepoints without a Unicode name are skipped. It reports false when the
// text holds no codepoint of the script.
func FindSpan(text string, script Script) (Span, bool) {
	marker := script.Marker()
	if marker == "" {
		return Span{}, false
	}
	runes := []rune(text)
	start := -1
	for i, r := range runes {
		if inScript(r, marker) {
			start = i
			break
		}
	}
	if start < 0 {
		return Span{}, false
	}
	for j := len(runes) - 1; j >= start; j-- {
		if inScript(runes[j], marker) {
			return Span{Start: start, End: j + 1}, true
		}
	}
	return Span{}, false
}

// inScript reports whether the Unicode name of r contains marker.
func inScript(r rune, marker string) bool {
	// Nothing below the combining diacritics block is Greek or Hebrew.
	if r < 0x0300 {
		return false
	}
	name := runenames.Name(r)
	return name != "" && strings.Contains(name, marker)
}
