// Package translit converts Biblical Hebrew and Koine Greek text into a
// Latin-letter phonetic approximation.
//
// Conversion is table driven. A Table holds literal substitution rules
// ordered longest source first, so multi-codepoint graphemes (a letter with
// its vowel point and dagesh, a vowel with breathing and accent) are consumed
// whole before any of their parts could match a shorter rule. Script specific
// passes then repair artifacts of the naive substitution: doubled initial
// consonants, spurious "iy" sequences and silent schwas for Hebrew, the
// semivowel in "aui" and the initial "ie" glide for Greek.
//
// Only the run of text between the first and last script codepoint (the span)
// is rewritten; markup, verse numbers and punctuation around it are kept.
//
// A Transliterator owns the loaded tables:
//
//	tr := translit.New()
//	out, err := tr.Hebrew("בְּרֵאשִׁית בָּרָא", false)
//	// out == "bərēʼshiyt bārāʼ"
//	if translit.IsFatal(err) {
//		// table or rule defect: skip this item
//	}
//
// Input without any script codepoints is returned unchanged with a warning.
// Conditions that indicate a defect in the tables or rules (a pass that does
// not converge, a post-condition violation, script characters left in the
// output) are returned as distinct error kinds so that batch callers can skip
// one item without aborting a run.
package translit
