package translit

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

// captureLogs redirects the global logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(prev) })
	return &buf
}

func TestParseTable(t *testing.T) {
	captureLogs(t)
	data := "\ufeffhbo\ten\tname\n" +
		"א\tʼ\talef\n" +
		"בּ\tbb\tbet with dagesh\n" +
		"\n" +
		"ב\tb\tbet\n" +
		"בָּ\tbbā\tbet with qamats and dagesh\n" +
		"ג\tg\tgimel\n"

	tbl, err := ParseTable(Hebrew, "test.tsv", []byte(data), TableOptions{})
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if got := strings.Join(tbl.Columns, ","); got != "hbo,en,name" {
		t.Errorf("Columns = %q, want BOM stripped header", got)
	}

	want := []Rule{
		{"בָּ", "bbā"},
		{"בּ", "bb"},
		{"א", "ʼ"},
		{"ב", "b"},
		{"ג", "g"},
	}
	if len(tbl.Rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(tbl.Rules), len(want))
	}
	for i, r := range want {
		if tbl.Rules[i] != r {
			t.Errorf("Rules[%d] = %+v, want %+v", i, tbl.Rules[i], r)
		}
	}
	if len(tbl.Digest) != 64 {
		t.Errorf("Digest = %q, want 64 hex chars", tbl.Digest)
	}
	if len(tbl.Issues) != 0 {
		t.Errorf("Issues = %+v, want none", tbl.Issues)
	}
	if target, ok := tbl.Lookup("ג"); !ok || target != "g" {
		t.Errorf("Lookup(ג) = %q, %v", target, ok)
	}
}

func TestParseTable_EmptyTargetDefaults(t *testing.T) {
	captureLogs(t)
	data := "x-grc-koine\ten\n\u0301\t\n\u0314\n"
	tbl, err := ParseTable(Greek, "marks.tsv", []byte(data), TableOptions{})
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	for _, r := range tbl.Rules {
		if r.Target != "" {
			t.Errorf("rule %q target = %q, want empty", r.Source, r.Target)
		}
	}
	// The second row is short a field: recorded, not fatal.
	if len(tbl.Issues) != 1 || tbl.Issues[0].Kind != IssueColumnCount || tbl.Issues[0].Line != 3 {
		t.Errorf("Issues = %+v, want one column_count issue on line 3", tbl.Issues)
	}
}

func TestParseTable_ColumnMismatchLogsCritical(t *testing.T) {
	logs := captureLogs(t)
	data := "hbo\ten\tname\nא\tʼ\n"
	tbl, err := ParseTable(Hebrew, "short.tsv", []byte(data), TableOptions{})
	if err != nil {
		t.Fatalf("column mismatch should not be fatal: %v", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
	if !strings.Contains(logs.String(), "CRITICAL") {
		t.Errorf("expected CRITICAL diagnostic, got %q", logs.String())
	}
}

func TestParseTable_Duplicates(t *testing.T) {
	data := "hbo\ten\nא\tʼ\nב\tb\nא\t'\n"

	t.Run("strict", func(t *testing.T) {
		logs := captureLogs(t)
		_, err := ParseTable(Hebrew, "dup.tsv", []byte(data), TableOptions{})
		var ie *IntegrityError
		if !errors.As(err, &ie) {
			t.Fatalf("err = %v, want IntegrityError", err)
		}
		if !errors.Is(err, cerrors.ErrInvalidInput) {
			t.Error("IntegrityError should unwrap to ErrInvalidInput")
		}
		if IsFatal(err) {
			t.Error("IntegrityError is a load failure, not a per-item fatal error")
		}
		out := logs.String()
		if !strings.Contains(out, "CRITICAL") || !strings.Contains(out, "duplicate entry") {
			t.Errorf("expected CRITICAL duplicate entry diagnostic, got %q", out)
		}
		if !strings.Contains(out, "count=2") {
			t.Errorf("expected duplicate count in diagnostic, got %q", out)
		}
	})

	t.Run("lenient keeps first", func(t *testing.T) {
		logs := captureLogs(t)
		tbl, err := ParseTable(Hebrew, "dup.tsv", []byte(data), TableOptions{Lenient: true})
		if err != nil {
			t.Fatalf("lenient ParseTable: %v", err)
		}
		if got, _ := tbl.Lookup("א"); got != "ʼ" {
			t.Errorf("Lookup(א) = %q, want first occurrence ʼ", got)
		}
		if tbl.Len() != 2 {
			t.Errorf("Len() = %d, want 2", tbl.Len())
		}
		if len(tbl.Issues) != 1 || tbl.Issues[0].Kind != IssueDuplicate {
			t.Errorf("Issues = %+v, want one duplicate", tbl.Issues)
		}
		if !strings.Contains(logs.String(), "duplicate entry") {
			t.Errorf("lenient mode must still log duplicates, got %q", logs.String())
		}
	})
}

func TestParseTable_Fatal(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"blank lines only", "\n\n"},
		{"missing source column", "grc\ten\nα\ta\n"},
		{"empty source", "hbo\ten\n\tx\n"},
		{"invalid utf-8", "hbo\ten\n\xff\tx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLogs(t)
			_, err := ParseTable(Hebrew, "bad.tsv", []byte(tt.data), TableOptions{})
			var ie *IntegrityError
			if !errors.As(err, &ie) {
				t.Errorf("err = %v, want IntegrityError", err)
			}
		})
	}
}

func TestParseTable_CRLF(t *testing.T) {
	captureLogs(t)
	tbl, err := ParseTable(Greek, "crlf.tsv", []byte("x-grc-koine\ten\r\nα\ta\r\nβ\tb\r\n"), TableOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := tbl.Lookup("β"); got != "b" {
		t.Errorf("Lookup(β) = %q, want b", got)
	}
	if len(tbl.Issues) != 0 {
		t.Errorf("Issues = %+v, want none", tbl.Issues)
	}
}

func TestParseTable_UnsupportedScript(t *testing.T) {
	_, err := ParseTable(Script(9), "x.tsv", []byte("hbo\ten\n"), TableOptions{})
	if !errors.Is(err, cerrors.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestLoadTable(t *testing.T) {
	captureLogs(t)
	dir := t.TempDir()
	data := []byte("x-grc-koine\ten\nα\ta\nγγ\tng\n")

	plain := filepath.Join(dir, "Greek.tsv")
	if err := os.WriteFile(plain, data, 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	w.Write(data)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "Greek.tsv.xz")
	if err := os.WriteFile(compressed, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, compressed} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			tbl, err := LoadTable(Greek, path, TableOptions{})
			if err != nil {
				t.Fatalf("LoadTable: %v", err)
			}
			if tbl.Rules[0].Source != "γγ" {
				t.Errorf("first rule = %q, want γγ", tbl.Rules[0].Source)
			}
			if tbl.Name != path {
				t.Errorf("Name = %q, want %q", tbl.Name, path)
			}
		})
	}

	t.Run("digest follows content", func(t *testing.T) {
		a, _ := LoadTable(Greek, plain, TableOptions{})
		b, _ := ParseTable(Greek, "other", data, TableOptions{})
		if a.Digest != b.Digest {
			t.Error("same bytes should give the same digest")
		}
	})
}

func TestLoadTable_Missing(t *testing.T) {
	_, err := LoadTable(Hebrew, filepath.Join(t.TempDir(), "Hebrew.tsv"), TableOptions{})
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want LoadError", err)
	}
	if !errors.Is(err, cerrors.ErrNotFound) {
		t.Errorf("missing table should unwrap to ErrNotFound: %v", err)
	}
}

func TestTableWriteTo(t *testing.T) {
	captureLogs(t)
	tbl, err := ParseTable(Greek, "t", []byte("x-grc-koine\ten\tname\nα\ta\tx\nγγ\tng\ty\n"), TableOptions{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := tbl.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	want := "x-grc-koine\ten\nγγ\tng\nα\ta\n"
	if buf.String() != want {
		t.Errorf("WriteTo = %q, want %q", buf.String(), want)
	}
	back, err := ParseTable(Greek, "back", buf.Bytes(), TableOptions{})
	if err != nil || back.Len() != 2 {
		t.Errorf("re-parse = %v, %v", back, err)
	}
}

func TestEmbeddedTablesLoadCleanly(t *testing.T) {
	logs := captureLogs(t)
	tr := New()
	for _, s := range Scripts() {
		tbl, err := tr.Load(s)
		if err != nil {
			t.Fatalf("Load(%s): %v", s, err)
		}
		if len(tbl.Issues) != 0 {
			t.Errorf("%s table issues: %+v", s, tbl.Issues)
		}
		if tbl.Len() < 300 {
			t.Errorf("%s table has %d rules, expected a full table", s, tbl.Len())
		}
		for i := 1; i < len(tbl.Rules); i++ {
			if len([]rune(tbl.Rules[i].Source)) > len([]rune(tbl.Rules[i-1].Source)) {
				t.Fatalf("%s rules not sorted at %d", s, i)
			}
		}
	}
	if strings.Contains(logs.String(), "CRITICAL") {
		t.Errorf("embedded tables logged integrity problems: %s", logs.String())
	}
}
