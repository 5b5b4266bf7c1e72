package batch

import (
	"encoding/json"
	"io"
	"time"

	"github.com/FocuswithJustin/bibletranslit/core/cache"
	"github.com/FocuswithJustin/bibletranslit/core/cas"
	"github.com/FocuswithJustin/bibletranslit/core/translit"
	"github.com/FocuswithJustin/bibletranslit/internal/corpus"
)

// Report summarizes one batch run.
type Report struct {
	RunID       string        `json:"run_id"`
	Script      string        `json:"script,omitempty"`
	Table       string        `json:"table,omitempty"`
	TableDigest string        `json:"table_digest,omitempty"`
	Started     time.Time     `json:"started"`
	Finished    time.Time     `json:"finished"`
	Files       []*FileReport `json:"files"`
	Cache       cache.Stats   `json:"cache"`
}

// FileReport summarizes one input file.
type FileReport struct {
	Path   string        `json:"path"`
	Output string        `json:"output,omitempty"`
	Format corpus.Format `json:"format,omitempty"`
	// Segments counts every segment read.
	Segments int `json:"segments"`
	// Transliterated counts segments that contained script and converted.
	Transliterated int `json:"transliterated"`
	// Passed counts segments without script, copied unchanged.
	Passed   int             `json:"passed"`
	Failures []Failure       `json:"failures,omitempty"`
	Findings []Finding       `json:"findings,omitempty"`
	Digest   *cas.HashResult `json:"digest,omitempty"`
	// Error is set when the file could not be read or written.
	Error string `json:"error,omitempty"`
}

// Failure is a segment that could not be transliterated. Its source text
// is copied to the output unchanged.
type Failure struct {
	Line  int    `json:"line"`
	Ref   string `json:"ref,omitempty"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Finding is a script character found in output text.
type Finding struct {
	Line int    `json:"line"`
	Ref  string `json:"ref,omitempty"`
	translit.Finding
}

// Failed returns the number of failed segments across all files.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Failures)
	}
	return n
}

// FindingCount returns the number of validator findings across all files.
func (r *Report) FindingCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Findings)
	}
	return n
}

// FileErrors returns the number of files that could not be processed.
func (r *Report) FileErrors() int {
	n := 0
	for _, f := range r.Files {
		if f.Error != "" {
			n++
		}
	}
	return n
}

// OK reports whether every segment of every file converted cleanly.
func (r *Report) OK() bool {
	return r.Failed() == 0 && r.FindingCount() == 0 && r.FileErrors() == 0
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
