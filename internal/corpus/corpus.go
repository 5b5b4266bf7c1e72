// Package corpus enumerates and reads the Bible texts fed to the
// transliterator.
//
// Plain text and USFM files are read line by line. MyBible SQLite modules
// and OSIS XML documents are read verse by verse, each segment keyed by its
// OSIS reference.
package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
)

// Format identifies how a corpus file is read.
type Format string

const (
	FormatText    Format = "text"
	FormatMyBible Format = "mybible"
	FormatOSIS    Format = "osis"
)

// Segment is one unit of text. Ref is empty for line-oriented formats.
type Segment struct {
	Ref  string
	Text string
}

// Document is the content of one corpus file.
type Document struct {
	Path     string
	Format   Format
	Segments []Segment
}

// Keyed reports whether segments carry references.
func (d *Document) Keyed() bool {
	return d.Format != FormatText
}

// xzExt marks a compressed text file.
const xzExt = ".xz"

var formatsByExt = map[string]Format{
	".txt":     FormatText,
	".usfm":    FormatText,
	".sfm":     FormatText,
	".sqlite3": FormatMyBible,
	".sqlite":  FormatMyBible,
	".db":      FormatMyBible,
	".xml":     FormatOSIS,
	".osis":    FormatOSIS,
}

// Extensions returns every extension Open understands, without ".xz".
func Extensions() []string {
	exts := make([]string, 0, len(formatsByExt))
	for ext := range formatsByExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Detect returns the format for path from its extension.
func Detect(path string) (Format, bool) {
	name := strings.ToLower(filepath.Base(path))
	compressed := strings.HasSuffix(name, xzExt)
	if compressed {
		name = strings.TrimSuffix(name, xzExt)
	}
	f, ok := formatsByExt[filepath.Ext(name)]
	if !ok || (compressed && f != FormatText) {
		return "", false
	}
	return f, true
}

// Walk returns the files under root whose extension is in exts, in lexical
// order. A nil exts accepts every supported extension. When root is a file
// it is returned as is.
func Walk(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerrors.NewNotFound("input", root)
		}
		return nil, cerrors.NewIO("stat", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	accept := func(path string) bool {
		if _, ok := Detect(path); !ok {
			return false
		}
		if exts == nil {
			return true
		}
		name := strings.TrimSuffix(strings.ToLower(path), xzExt)
		for _, ext := range exts {
			if strings.HasSuffix(name, strings.ToLower(ext)) {
				return true
			}
		}
		return false
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if accept(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, cerrors.NewIO("walk", root, err)
	}
	return files, nil
}

// Open reads path with the reader its extension selects.
func Open(ctx context.Context, path string) (*Document, error) {
	format, ok := Detect(path)
	if !ok {
		return nil, cerrors.NewUnsupported("corpus format", filepath.Base(path))
	}

	var (
		segs []Segment
		err  error
	)
	switch format {
	case FormatText:
		segs, err = readText(path)
	case FormatMyBible:
		segs, err = readMyBible(ctx, path)
	case FormatOSIS:
		segs, err = readOSIS(path)
	}
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Format: format, Segments: segs}, nil
}

// OutputName returns the file name used for the transliteration of path.
// Text files keep their name without ".xz"; keyed formats become ".tsv".
func OutputName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(base), xzExt) {
		base = base[:len(base)-len(xzExt)]
	}
	if f, ok := Detect(path); ok && f != FormatText {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".tsv"
	}
	return base
}
