package translit

import (
	"embed"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

//go:embed tables/*.tsv
var embeddedTables embed.FS

// EmbeddedPrefix marks table names that come from the tables compiled into
// the binary.
const EmbeddedPrefix = "embedded:"

// Option configures a Transliterator.
type Option func(*Transliterator)

// WithTableDir loads tables from dir instead of the embedded copies. The
// directory must hold <Script>.tsv or <Script>.tsv.xz.
func WithTableDir(dir string) Option {
	return func(t *Transliterator) {
		t.dir = dir
	}
}

// WithLenientTables keeps the first of duplicate table sources instead of
// refusing to load the table.
func WithLenientTables() Option {
	return func(t *Transliterator) {
		t.lenient = true
	}
}

// WithNFC normalizes the script span to NFC before substitution, so input
// with marks in non-canonical order or Hebrew presentation forms matches
// the table.
func WithNFC() Option {
	return func(t *Transliterator) {
		t.nfc = true
	}
}

// Options controls a single transliteration.
type Options struct {
	// Capitalize uppercases the first letter of Hebrew output.
	Capitalize bool
}

// Transliterator loads tables once per script and reuses them. It is safe
// for concurrent use; Reload may run while other goroutines transliterate.
type Transliterator struct {
	mu      sync.RWMutex
	tables  map[Script]*Table
	dir     string
	lenient bool
	nfc     bool
}

// New creates a Transliterator. Tables are loaded on first use.
func New(opts ...Option) *Transliterator {
	t := &Transliterator{tables: make(map[Script]*Table)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load returns the table for script, loading it on first use.
func (t *Transliterator) Load(script Script) (*Table, error) {
	t.mu.RLock()
	tbl, ok := t.tables[script]
	t.mu.RUnlock()
	if ok {
		return tbl, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if tbl, ok := t.tables[script]; ok {
		return tbl, nil
	}
	tbl, err := t.read(script)
	if err != nil {
		return nil, err
	}
	t.tables[script] = tbl
	return tbl, nil
}

// Reload reads the table for script again. The cached table is replaced
// only when the new one loads without error.
func (t *Transliterator) Reload(script Script) (*Table, error) {
	tbl, err := t.read(script)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.tables[script] = tbl
	t.mu.Unlock()
	return tbl, nil
}

// TableDir returns the directory tables are read from, or "" for the
// embedded tables.
func (t *Transliterator) TableDir() string {
	return t.dir
}

func (t *Transliterator) read(script Script) (*Table, error) {
	if !script.valid() {
		return nil, cerrors.NewUnsupported("script", script.String())
	}
	opts := TableOptions{Lenient: t.lenient}

	var (
		tbl *Table
		err error
	)
	if t.dir == "" {
		name := "tables/" + script.TableFile()
		data, rerr := embeddedTables.ReadFile(name)
		if rerr != nil {
			return nil, &LoadError{Script: script, Path: EmbeddedPrefix + name, Err: cerrors.NewNotFound("table", name)}
		}
		tbl, err = ParseTable(script, EmbeddedPrefix+script.TableFile(), data, opts)
	} else {
		tbl, err = LoadTable(script, t.tablePath(script), opts)
	}
	if err != nil {
		return nil, err
	}
	logging.TableLoaded(script.String(), tbl.Name, tbl.Len(), tbl.Digest, "issues", len(tbl.Issues))
	return tbl, nil
}

// tablePath prefers the plain file and falls back to an .xz copy.
func (t *Transliterator) tablePath(script Script) string {
	plain := filepath.Join(t.dir, script.TableFile())
	if _, err := os.Stat(plain); err == nil {
		return plain
	}
	if _, err := os.Stat(plain + ".xz"); err == nil {
		return plain + ".xz"
	}
	return plain
}

// Hebrew transliterates the Hebrew span of text. Text outside the span is
// kept as is. Without Hebrew characters the text is returned unchanged and
// a warning is logged.
func (t *Transliterator) Hebrew(text string, capitalize bool) (string, error) {
	tbl, err := t.Load(Hebrew)
	if err != nil {
		return "", err
	}
	span, ok := FindSpan(text, Hebrew)
	if !ok {
		logging.Warn("no script characters found", "script", Hebrew.String(), "text", clip(text))
		return text, nil
	}
	prefix, body, suffix := span.Split(text)
	if t.nfc {
		body = norm.NFC.String(body)
	}
	out, err := hebrewBody(tbl, body, capitalize)
	if err != nil {
		return "", err
	}
	return prefix + out + suffix, nil
}

// Greek transliterates Greek text. Without Greek characters the text is
// returned unchanged and a warning is logged.
func (t *Transliterator) Greek(text string) (string, error) {
	tbl, err := t.Load(Greek)
	if err != nil {
		return "", err
	}
	span, ok := FindSpan(text, Greek)
	if !ok {
		logging.Warn("no script characters found", "script", Greek.String(), "text", clip(text))
		return text, nil
	}
	if t.nfc {
		prefix, body, suffix := span.Split(text)
		body = norm.NFC.String(body)
		text = prefix + body + suffix
		span.End = span.Start + utf8.RuneCountInString(body)
	}
	return greekText(tbl, text, span)
}

// Transliterate dispatches on script.
func (t *Transliterator) Transliterate(script Script, text string, opts Options) (string, error) {
	switch script {
	case Hebrew:
		return t.Hebrew(text, opts.Capitalize)
	case Greek:
		return t.Greek(text)
	}
	return "", cerrors.NewUnsupported("script", script.String())
}

func clip(s string) string {
	const max = 40
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "…"
}
