package translit

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/bibletranslit/core/cas"
	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

const bom = "\ufeff"

// Rule is one literal substitution.
type Rule struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IssueKind classifies a recoverable table problem.
type IssueKind string

const (
	// IssueColumnCount marks a row whose field count differs from the header.
	IssueColumnCount IssueKind = "column_count"
	// IssueDuplicate marks a source that appears on more than one row.
	IssueDuplicate IssueKind = "duplicate"
	// IssueMissingTarget marks a table without a target column.
	IssueMissingTarget IssueKind = "missing_target"
)

// Issue is a problem found while loading a table.
type Issue struct {
	Line   int       `json:"line"`
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail"`
}

// Table is an ordered rule set for one script. Rules are sorted by
// descending source length in codepoints; equal lengths keep file order.
// A Table is never modified after it is returned.
type Table struct {
	Script  Script   `json:"script"`
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rules   []Rule   `json:"rules"`
	Digest  string   `json:"digest"`
	Issues  []Issue  `json:"issues,omitempty"`
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.Rules)
}

// Lookup returns the target for an exact source.
func (t *Table) Lookup(source string) (string, bool) {
	for _, r := range t.Rules {
		if r.Source == source {
			return r.Target, true
		}
	}
	return "", false
}

// TableOptions controls integrity handling during parsing.
type TableOptions struct {
	// Lenient keeps the first of duplicate sources instead of failing.
	Lenient bool
}

// LoadTable reads a table file. Paths ending in .xz are decompressed.
func LoadTable(script Script, path string, opts TableOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Script: script, Path: path, Err: cerrors.NewNotFound("table", path)}
		}
		return nil, &LoadError{Script: script, Path: path, Err: cerrors.NewIO("open", path, err)}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, &LoadError{Script: script, Path: path, Err: cerrors.NewIO("decompress", path, err)}
		}
		r = xr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Script: script, Path: path, Err: cerrors.NewIO("read", path, err)}
	}
	return ParseTable(script, path, data, opts)
}

// ParseTable parses tab-separated table data. The first non-empty line is
// the header; a leading byte-order mark is ignored. Fields are split on TAB
// without quoting so that quote characters can appear in rules.
func ParseTable(script Script, name string, data []byte, opts TableOptions) (*Table, error) {
	if !script.valid() {
		return nil, cerrors.NewUnsupported("script", script.String())
	}

	t := &Table{
		Script: script,
		Name:   name,
		Digest: cas.Blake3Hash(data),
	}

	text := strings.TrimPrefix(string(data), bom)
	if !utf8.ValidString(text) {
		return nil, &IntegrityError{Table: name, Problems: []string{"table is not valid UTF-8"}}
	}
	lines := strings.Split(text, "\n")

	headerLine := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			headerLine = i
			break
		}
	}
	if headerLine < 0 {
		return nil, &IntegrityError{Table: name, Problems: []string{"table has no header"}}
	}

	t.Columns = splitRow(lines[headerLine])
	srcCol, dstCol := -1, -1
	for i, c := range t.Columns {
		switch strings.TrimSpace(c) {
		case script.SourceColumn():
			srcCol = i
		case TargetColumn:
			dstCol = i
		}
	}
	if srcCol < 0 {
		return nil, &IntegrityError{
			Table:    name,
			Problems: []string{fmt.Sprintf("missing source column %q", script.SourceColumn())},
		}
	}
	if dstCol < 0 {
		t.addIssue(Issue{Line: headerLine + 1, Kind: IssueMissingTarget,
			Detail: fmt.Sprintf("missing target column %q, targets default to empty", TargetColumn)})
	}

	var (
		rules    []Rule
		problems []string
		seen     = map[string]bool{}
		lineOf   = map[string][]int{}
	)
	for i := headerLine + 1; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1
		fields := splitRow(line)
		if len(fields) != len(t.Columns) {
			t.addIssue(Issue{Line: lineNo, Kind: IssueColumnCount,
				Detail: fmt.Sprintf("row has %d fields, header has %d", len(fields), len(t.Columns))})
		}
		if srcCol >= len(fields) || fields[srcCol] == "" {
			problems = append(problems, fmt.Sprintf("line %d: empty source", lineNo))
			logging.IntegrityIssue(name, lineNo, "empty source")
			continue
		}
		src := fields[srcCol]
		target := ""
		if dstCol >= 0 && dstCol < len(fields) {
			target = fields[dstCol]
		}

		lineOf[src] = append(lineOf[src], lineNo)
		if seen[src] {
			continue
		}
		seen[src] = true
		rules = append(rules, Rule{Source: src, Target: target})
	}

	for _, r := range rules {
		at := lineOf[r.Source]
		if len(at) < 2 {
			continue
		}
		detail := fmt.Sprintf("duplicate entry %q (U+%s) appears %d times on lines %v",
			r.Source, codepoints(r.Source), len(at), at)
		t.Issues = append(t.Issues, Issue{Line: at[1], Kind: IssueDuplicate, Detail: detail})
		logging.IntegrityIssue(name, at[1], "duplicate entry", "source", r.Source, "count", len(at), "lines", at)
		if !opts.Lenient {
			problems = append(problems, detail)
		}
	}

	if len(problems) > 0 {
		return nil, &IntegrityError{Table: name, Problems: problems}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return utf8.RuneCountInString(rules[i].Source) > utf8.RuneCountInString(rules[j].Source)
	})
	t.Rules = rules
	return t, nil
}

func (t *Table) addIssue(is Issue) {
	t.Issues = append(t.Issues, is)
	logging.IntegrityIssue(t.Name, is.Line, is.Detail, "kind", string(is.Kind))
}

func splitRow(line string) []string {
	return strings.Split(strings.TrimSuffix(line, "\r"), "\t")
}

func codepoints(s string) string {
	var b bytes.Buffer
	for i, r := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%04X", r)
	}
	return b.String()
}

// WriteTo writes the table back out as TSV in rule order, with the source
// and target columns only.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	b.WriteString(t.Script.SourceColumn())
	b.WriteByte('\t')
	b.WriteString(TargetColumn)
	b.WriteByte('\n')
	for _, r := range t.Rules {
		b.WriteString(r.Source)
		b.WriteByte('\t')
		b.WriteString(r.Target)
		b.WriteByte('\n')
	}
	return b.WriteTo(w)
}
