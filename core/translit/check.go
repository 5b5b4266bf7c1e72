package translit

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/runenames"

	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

// allowed is accepted by the validator regardless of its Unicode name.
const allowed = "ʼ,.?!:;-–/\\1234567890“”‘’()¶…©"

// Finding locates a script character left in transliterated text.
type Finding struct {
	Line   int    `json:"line"`   // 1-based line number
	Column int    `json:"column"` // rune offset within the line
	Char   rune   `json:"char"`
	Name   string `json:"name"`
}

func (f Finding) String() string {
	return fmt.Sprintf("line %d, column %d: %q (U+%04X %s)", f.Line, f.Column, f.Char, f.Char, f.Name)
}

// CheckLine returns the first Hebrew or Greek character in line, or nil.
// The returned Finding has Line set to 1.
func CheckLine(line string) *Finding {
	return scanLine(line, Hebrew.Marker(), Greek.Marker())
}

// FindResidual returns the first Hebrew or Greek character in text, or nil.
func FindResidual(text string) *Finding {
	return scanText(text, Hebrew.Marker(), Greek.Marker())
}

// CheckText reports whether text is free of Hebrew and Greek characters.
// The first offending character is logged at CRITICAL.
func CheckText(text string) bool {
	f := FindResidual(text)
	if f == nil {
		return true
	}
	logging.Critical("untransliterated character",
		"line", f.Line, "column", f.Column, "char", string(f.Char), "name", f.Name)
	return false
}

func scanText(text string, markers ...string) *Finding {
	for i, line := range strings.Split(text, "\n") {
		if f := scanLine(line, markers...); f != nil {
			f.Line = i + 1
			return f
		}
	}
	return nil
}

func scanLine(line string, markers ...string) *Finding {
	col := 0
	for _, r := range line {
		if r >= 0x0300 && !strings.ContainsRune(allowed, r) {
			name := runenames.Name(r)
			for _, m := range markers {
				if name != "" && strings.Contains(name, m) {
					return &Finding{Line: 1, Column: col, Char: r, Name: name}
				}
			}
		}
		col++
	}
	return nil
}
