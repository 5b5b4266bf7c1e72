package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Ref is a parsed OSIS verse reference such as "Gen.1.1" or "1John.3.16".
type Ref struct {
	Book     string
	Chapter  int
	Verse    int
	VerseEnd int
	SubVerse string
}

// refGrammar accepts "Gen", "Gen.1", "Gen.1.1", "Gen.1.1a" and "Gen.1.1-3".
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookPrefix string       `@Int?`
	BookName   string       `@Ident`
	Chapter    *chapterPart `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type chapterPart struct {
	Number int        `@Int`
	Verse  *versePart `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Number   int     `@Int`
	SubVerse *string `@SubVerse?`
	End      *int    `( "-" @Int )?`
}

// Book names start with an uppercase letter so that a lone lowercase letter
// lexes as a sub-verse.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Z][A-Za-z]*`},
	{Name: "SubVerse", Pattern: `[a-z]`},
	{Name: "Punct", Pattern: `[.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses an osisID. A work prefix ("WLC:Gen.1.1") is dropped and
// only the first of several space separated IDs is used.
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if fields := strings.Fields(s); len(fields) > 1 {
		s = fields[0]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return nil, fmt.Errorf("empty reference")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", s, err)
	}

	ref := &Ref{Book: parsed.BookPrefix + parsed.BookName}
	if c := parsed.Chapter; c != nil {
		ref.Chapter = c.Number
		if v := c.Verse; v != nil {
			ref.Verse = v.Number
			if v.SubVerse != nil {
				ref.SubVerse = *v.SubVerse
			}
			if v.End != nil {
				ref.VerseEnd = *v.End
			}
		}
	}
	return ref, nil
}

// String renders the reference in OSIS form.
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	if r.Chapter > 0 {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(r.Chapter))
		if r.Verse > 0 {
			sb.WriteByte('.')
			sb.WriteString(strconv.Itoa(r.Verse))
			sb.WriteString(r.SubVerse)
			if r.VerseEnd > r.Verse {
				sb.WriteByte('-')
				sb.WriteString(strconv.Itoa(r.VerseEnd))
			}
		}
	}
	return sb.String()
}

// normalizeRef returns the canonical form of an osisID. When the ID does
// not parse, the trimmed ID is returned with the parse error.
func normalizeRef(osisID string) (string, error) {
	ref, err := ParseRef(osisID)
	if err != nil {
		return strings.TrimSpace(osisID), err
	}
	return ref.String(), nil
}
