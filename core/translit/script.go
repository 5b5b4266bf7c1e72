package translit

import (
	"strings"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
)

// Script identifies a source writing system.
type Script int

const (
	// Hebrew is Biblical Hebrew with niqqud and cantillation marks.
	Hebrew Script = iota + 1
	// Greek is Koine Greek, monotonic or polytonic.
	Greek
)

// TargetColumn is the table column holding the Latin rendering.
const TargetColumn = "en"

// Scripts returns every supported script.
func Scripts() []Script {
	return []Script{Hebrew, Greek}
}

func (s Script) String() string {
	switch s {
	case Hebrew:
		return "Hebrew"
	case Greek:
		return "Greek"
	}
	return "unknown"
}

// SourceColumn is the table column that holds source-script text.
func (s Script) SourceColumn() string {
	switch s {
	case Hebrew:
		return "hbo"
	case Greek:
		return "x-grc-koine"
	}
	return ""
}

// Marker is the word that appears in the Unicode name of every codepoint of
// the script.
func (s Script) Marker() string {
	switch s {
	case Hebrew:
		return "HEBREW"
	case Greek:
		return "GREEK"
	}
	return ""
}

// TableFile is the file name of the script's table.
func (s Script) TableFile() string {
	return s.String() + ".tsv"
}

func (s Script) valid() bool {
	return s == Hebrew || s == Greek
}

// ParseScript accepts a script name or its language code, case-insensitively.
func ParseScript(name string) (Script, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hebrew", "hbo", "he", "heb":
		return Hebrew, nil
	case "greek", "grc", "x-grc-koine", "el", "koine":
		return Greek, nil
	}
	return 0, cerrors.NewUnsupported("script", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Script) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, cerrors.NewUnsupported("script", s.String())
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Script) UnmarshalText(b []byte) error {
	v, err := ParseScript(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
