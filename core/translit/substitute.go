package translit

import "strings"

// Substitute applies every rule of t to text in table order, replacing all
// non-overlapping occurrences of each source with its target. Because the
// table is ordered longest source first, a multi-codepoint source is
// consumed before any shorter rule could match part of it.
func Substitute(text string, t *Table) string {
	if t == nil {
		return text
	}
	for _, r := range t.Rules {
		if strings.Contains(text, r.Source) {
			text = strings.ReplaceAll(text, r.Source, r.Target)
		}
	}
	return text
}
