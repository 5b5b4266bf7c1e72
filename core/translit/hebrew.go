package translit

import (
	"strings"
	"unicode"
)

const (
	iyIterationLimit    = 10000
	schwaIterationLimit = 100
	schwa               = 'ə'
	glottal             = 'ʼ'
)

var (
	// wordSeparators delimit words inside a transliterated Hebrew span.
	wordSeparators = " \t\n.,-\\|*/<>\"=:;¶()[]?!"

	// iyDropBefore holds the letters before which a spurious "iy" loses its y.
	iyDropBefore = "ʼʻhḩ"

	hebrewConsonants = "ʼbgdhwzḩţyklmnsʻpʦqrşśt"
	shortVowels      = "aeiou"

	illegalDoubles = []string{"bb", "gg", "dd", "kk", "pp", "tt", "şş"}

	// furtive is a patah written after a final het; it is pronounced first.
	furtive    = []rune("ḩa")
	furtiveFix = []rune("aḩ")

	capitals = map[rune]string{
		'ʦ': "Ts",
		'ḩ': "H",
		'ţ': "T",
		'ś': "S",
	}
)

// word is a half-open rune range of a span body.
type word struct {
	start, end int
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(wordSeparators, r)
}

// words splits b into maximal runs of non-separator runes.
func words(b []rune) []word {
	var out []word
	for i := 0; i < len(b); {
		if isSeparator(b[i]) {
			i++
			continue
		}
		j := i
		for j < len(b) && !isSeparator(b[j]) {
			j++
		}
		out = append(out, word{i, j})
		i = j
	}
	return out
}

// hebrewBody runs the Hebrew passes over a span body.
func hebrewBody(t *Table, body string, capitalize bool) (string, error) {
	b := []rune(Substitute(body, t))

	b, err := repairIY(b)
	if err != nil {
		return "", err
	}
	b = dropLeadingDouble(b)
	b = dropWordDoubles(b)
	b = relocateFurtive(b)
	if err := checkRepairs(b); err != nil {
		return "", err
	}
	if b, err = elideSchwas(b); err != nil {
		return "", err
	}

	out := strings.ReplaceAll(string(b), "ş", "sh")

	if f := scanText(out, Hebrew.Marker()); f != nil {
		return "", &ResidualScriptError{Script: Hebrew, Char: f.Char, Name: f.Name, Offset: runeOffset(out, f)}
	}
	if capitalize {
		out = capitalizeFirst(out)
	}
	return out, nil
}

// repairIY deletes the y of "iy" when a glottal or h-like letter follows.
// Only repairs count towards the iteration limit.
func repairIY(b []rune) ([]rune, error) {
	from, n := 0, 0
	for {
		k := indexPair(b, from, 'i', 'y')
		if k < 0 {
			return b, nil
		}
		if k+2 < len(b) && strings.ContainsRune(iyDropBefore, b[k+2]) {
			n++
			if n > iyIterationLimit {
				return nil, &NonConvergenceError{Pass: "iy repair", Limit: iyIterationLimit}
			}
			b = deleteAt(b, k+1)
		}
		from = k + 1
	}
}

// dropLeadingDouble removes the first rune when the body starts with two
// identical runes.
func dropLeadingDouble(b []rune) []rune {
	if len(b) >= 2 && b[0] == b[1] {
		return b[1:]
	}
	return b
}

// dropWordDoubles removes the first rune of every later word that starts
// with a doubled letter. Numbers such as verse markers are left alone.
// Words are edited right to left so earlier offsets stay valid.
func dropWordDoubles(b []rune) []rune {
	ws := words(b)
	for i := len(ws) - 1; i >= 0; i-- {
		w := ws[i]
		if w.start == 0 {
			continue
		}
		if w.end-w.start >= 2 && b[w.start] == b[w.start+1] && unicode.IsLetter(b[w.start]) {
			b = deleteAt(b, w.start)
		}
	}
	return b
}

// relocateFurtive swaps a word-final "ḩa" to "aḩ".
func relocateFurtive(b []rune) []rune {
	for _, w := range words(b) {
		if w.end-w.start >= 2 && b[w.end-2] == furtive[0] && b[w.end-1] == furtive[1] {
			b[w.end-2], b[w.end-1] = furtiveFix[0], furtiveFix[1]
		}
	}
	return b
}

// checkRepairs verifies that no word still starts with an illegal doubled
// consonant or ends with a furtive patah.
func checkRepairs(b []rune) error {
	for _, w := range words(b) {
		s := string(b[w.start:w.end])
		for _, d := range illegalDoubles {
			if strings.HasPrefix(s, d) {
				return &PostConditionError{Rule: "no word-initial " + d, Word: s}
			}
		}
		if strings.HasSuffix(s, string(furtive)) {
			return &PostConditionError{Rule: "no word-final " + string(furtive), Word: s}
		}
	}
	return nil
}

// elideSchwas removes silent schwas. A schwa past the second rune of a word
// is silent when a consonant precedes it and a short vowel precedes that.
// A geminate consonant pair right after a silent schwa is collapsed.
func elideSchwas(b []rune) ([]rune, error) {
	ws := words(b)
	for i := len(ws) - 1; i >= 0; i-- {
		w := append([]rune(nil), b[ws[i].start:ws[i].end]...)
		if !containsRune(w, schwa) {
			continue
		}
		ix, iter := 1, 0
		for {
			iter++
			if iter > schwaIterationLimit {
				return nil, &NonConvergenceError{Pass: "schwa elision", Limit: schwaIterationLimit, Word: string(w)}
			}
			next := indexRune(w, ix+1, schwa)
			if next < 0 {
				break
			}
			ix = next
			if strings.ContainsRune(hebrewConsonants, w[ix-1]) && strings.ContainsRune(shortVowels, w[ix-2]) {
				w = deleteAt(w, ix)
				if ix+1 < len(w) && w[ix] == w[ix+1] && strings.ContainsRune(hebrewConsonants, w[ix]) {
					w = deleteAt(w, ix)
				}
				ix--
			}
		}
		b = splice(b, ws[i].start, ws[i].end, w)
	}
	return b, nil
}

// capitalizeFirst uppercases the first letter, or the letter after a
// leading glottal stop. Letters without a capital form in the target
// alphabet use fixed replacements.
func capitalizeFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	i := 0
	if r[0] == glottal && len(r) > 1 {
		i = 1
	}
	up, ok := capitals[r[i]]
	if !ok {
		up = string(unicode.ToUpper(r[i]))
	}
	return string(r[:i]) + up + string(r[i+1:])
}

func indexPair(b []rune, from int, a, c rune) int {
	for i := from; i+1 < len(b); i++ {
		if b[i] == a && b[i+1] == c {
			return i
		}
	}
	return -1
}

func indexRune(b []rune, from int, r rune) int {
	for i := from; i < len(b); i++ {
		if b[i] == r {
			return i
		}
	}
	return -1
}

func containsRune(b []rune, r rune) bool {
	return indexRune(b, 0, r) >= 0
}

func deleteAt(b []rune, i int) []rune {
	return append(b[:i], b[i+1:]...)
}

// splice replaces b[start:end] with w.
func splice(b []rune, start, end int, w []rune) []rune {
	out := make([]rune, 0, len(b)-(end-start)+len(w))
	out = append(out, b[:start]...)
	out = append(out, w...)
	return append(out, b[end:]...)
}

// runeOffset converts a Finding in text to a rune offset from the start.
func runeOffset(text string, f *Finding) int {
	off := 0
	for i, line := range strings.Split(text, "\n") {
		if i == f.Line-1 {
			return off + f.Column
		}
		off += len([]rune(line)) + 1
	}
	return off
}
