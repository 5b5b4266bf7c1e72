// Package batch transliterates whole corpora and reports on the result.
//
// A Runner reads each input with internal/corpus, converts every segment
// that contains script text, validates the output and writes it under an
// output directory. Repeated lines are served from an LRU cache.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/bibletranslit/core/cache"
	"github.com/FocuswithJustin/bibletranslit/core/cas"
	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
	"github.com/FocuswithJustin/bibletranslit/core/translit"
	"github.com/FocuswithJustin/bibletranslit/internal/corpus"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

// Options configures a Runner.
type Options struct {
	Script     translit.Script
	Capitalize bool
	// Check validates every output segment for residual script.
	Check bool
	// OutDir receives one output file per input. When empty, output goes
	// to Out (if set) and is otherwise only hashed.
	OutDir string
	// Root is the input root; output paths mirror the layout below it.
	Root string
	Out  io.Writer
}

// Runner transliterates corpora. A Runner is not safe for concurrent runs.
type Runner struct {
	tr    *translit.Transliterator
	cache *cache.LineCache
	opts  Options
}

// NewRunner creates a Runner. cacheSize 0 disables line memoization.
func NewRunner(tr *translit.Transliterator, cacheSize int, opts Options) *Runner {
	return &Runner{tr: tr, cache: cache.NewLineCache(cacheSize), opts: opts}
}

// Script returns the script the Runner transliterates.
func (r *Runner) Script() translit.Script {
	return r.opts.Script
}

// ClearCache forgets memoized lines. Call it after a table reload.
func (r *Runner) ClearCache() {
	r.cache.Clear()
}

// CacheStats returns line cache statistics.
func (r *Runner) CacheStats() cache.Stats {
	return r.cache.Stats()
}

// Run transliterates every file in paths. Per-file read and write errors
// are recorded in the report; the run only fails when the table cannot be
// loaded or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	tbl, err := r.tr.Load(r.opts.Script)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:       uuid.NewString(),
		Script:      r.opts.Script.String(),
		Table:       tbl.Name,
		TableDigest: tbl.Digest,
		Started:     time.Now().UTC(),
	}
	ctx = logging.WithRunID(ctx, rep.RunID)
	logging.InfoContext(ctx, "batch_started",
		"script", rep.Script, "files", len(paths), "table_digest", rep.TableDigest)

	for _, path := range paths {
		fr, err := r.RunFile(ctx, path)
		if fr != nil {
			rep.Files = append(rep.Files, fr)
		}
		if err != nil {
			rep.Finished = time.Now().UTC()
			rep.Cache = r.cache.Stats()
			return rep, err
		}
	}

	rep.Finished = time.Now().UTC()
	rep.Cache = r.cache.Stats()
	logging.InfoContext(ctx, "batch_finished",
		"files", len(rep.Files),
		"failed", rep.Failed(),
		"findings", rep.FindingCount(),
		"cache_hit_rate", fmt.Sprintf("%.2f", rep.Cache.HitRate()),
		"duration", rep.Finished.Sub(rep.Started).String())
	return rep, nil
}

// RunFile transliterates one file. Only context cancellation is returned
// as an error; other problems are recorded in the FileReport.
func (r *Runner) RunFile(ctx context.Context, path string) (*FileReport, error) {
	fr := &FileReport{Path: path}

	doc, err := corpus.Open(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fr, ctxErr
		}
		fr.Error = err.Error()
		logging.ErrorContext(ctx, "input_failed", "path", path, "error", err)
		return fr, nil
	}
	fr.Format = doc.Format

	out, err := r.Convert(ctx, doc, fr)
	if err != nil {
		return fr, err
	}

	if err := r.write(out, fr); err != nil {
		fr.Error = err.Error()
		logging.ErrorContext(ctx, "output_failed", "path", path, "error", err)
		return fr, nil
	}
	logging.DebugContext(ctx, "file_done",
		"path", path, "segments", fr.Segments, "failed", len(fr.Failures))
	return fr, nil
}

// Convert transliterates the segments of doc, filling in fr. It returns
// the converted document, or ctx.Err() when cancelled between segments.
func (r *Runner) Convert(ctx context.Context, doc *corpus.Document, fr *FileReport) (*corpus.Document, error) {
	out := &corpus.Document{
		Path:     doc.Path,
		Format:   doc.Format,
		Segments: make([]corpus.Segment, 0, len(doc.Segments)),
	}
	for i, seg := range doc.Segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fr.Segments++
		line := i + 1

		text, converted, err := r.Line(seg.Text)
		if err != nil {
			if !translit.IsFatal(err) {
				return nil, err
			}
			fr.Failures = append(fr.Failures, Failure{
				Line:  line,
				Ref:   seg.Ref,
				Kind:  string(cerrors.KindOf(err)),
				Error: err.Error(),
			})
			logging.ItemFailed(ctx, doc.Path, refOrLine(seg.Ref, line), err, "kind", string(cerrors.KindOf(err)))
			out.Segments = append(out.Segments, seg)
			continue
		}
		if converted {
			fr.Transliterated++
		} else {
			fr.Passed++
		}

		if r.opts.Check && converted {
			if f := translit.CheckLine(text); f != nil {
				fr.Findings = append(fr.Findings, Finding{Line: line, Ref: seg.Ref, Finding: *f})
				logging.Critical("untransliterated character",
					"path", doc.Path, "ref", refOrLine(seg.Ref, line),
					"column", f.Column, "char", string(f.Char), "name", f.Name)
			}
		}
		out.Segments = append(out.Segments, corpus.Segment{Ref: seg.Ref, Text: text})
	}
	return out, nil
}

// Line transliterates one segment. Text without script characters is
// returned unchanged with converted false and logged at debug level;
// corpora carry many such lines and the report counts them as passed.
func (r *Runner) Line(text string) (out string, converted bool, err error) {
	if _, ok := translit.FindSpan(text, r.opts.Script); !ok {
		logging.Debug("no script characters found", "script", r.opts.Script.String(), "text", text)
		return text, false, nil
	}
	key := cache.LineKey{Script: r.opts.Script.String(), Capitalize: r.opts.Capitalize, Text: text}
	if out, ok := r.cache.Get(key); ok {
		return out, true, nil
	}
	out, err = r.tr.Transliterate(r.opts.Script, text, translit.Options{Capitalize: r.opts.Capitalize})
	if err != nil {
		return "", false, err
	}
	r.cache.Put(key, out)
	return out, true, nil
}

// OutputPath returns where the output for path is written, or "" when the
// Runner has no output directory.
func (r *Runner) OutputPath(path string) string {
	if r.opts.OutDir == "" {
		return ""
	}
	dir := ""
	if r.opts.Root != "" {
		if rel, err := filepath.Rel(r.opts.Root, filepath.Dir(path)); err == nil && !strings.HasPrefix(rel, "..") {
			dir = rel
		}
	}
	return filepath.Join(r.opts.OutDir, dir, corpus.OutputName(path))
}

func (r *Runner) write(doc *corpus.Document, fr *FileReport) error {
	w := r.opts.Out
	if target := r.OutputPath(doc.Path); target != "" {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return cerrors.NewIO("create", filepath.Dir(target), err)
		}
		f, err := os.Create(target)
		if err != nil {
			return cerrors.NewIO("create", target, err)
		}
		fr.Output = target
		h := cas.NewHasher(f)
		werr := corpus.Write(h, doc)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return cerrors.NewIO("write", target, werr)
		}
		digest := h.Result()
		fr.Digest = &digest
		return nil
	}

	h := cas.NewHasher(w)
	if err := corpus.Write(h, doc); err != nil {
		return cerrors.NewIO("write", "output", err)
	}
	digest := h.Result()
	fr.Digest = &digest
	return nil
}

func refOrLine(ref string, line int) string {
	if ref != "" {
		return ref
	}
	return fmt.Sprintf("line %d", line)
}
