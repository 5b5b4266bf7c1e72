// Package watch re-runs transliteration when inputs or tables change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/FocuswithJustin/bibletranslit/core/translit"
	"github.com/FocuswithJustin/bibletranslit/internal/batch"
	"github.com/FocuswithJustin/bibletranslit/internal/corpus"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

// tablesKey is the debounce key shared by every table event.
const tablesKey = "\x00tables"

// Config configures a Watcher.
type Config struct {
	// Inputs is the corpus file or directory.
	Inputs string
	// Tables is the table directory. Empty means embedded tables, which
	// are not watched.
	Tables string
	// OutDir is ignored by the watcher so that written output does not
	// trigger new runs.
	OutDir   string
	Debounce time.Duration
	// OnReport receives the report of every run.
	OnReport func(*batch.Report)
}

// Watcher runs a full batch at start, then re-runs touched inputs, and
// everything after a table reload.
type Watcher struct {
	cfg      Config
	tr       *translit.Transliterator
	runner   *batch.Runner
	fsw      *fsnotify.Watcher
	debounce *Debouncer

	// single is set when Inputs names one file rather than a directory.
	single bool

	// runMu serializes runs; a Runner is not safe for concurrent use.
	runMu sync.Mutex
}

// New creates a Watcher.
func New(cfg Config, tr *translit.Transliterator, runner *batch.Runner) (*Watcher, error) {
	if cfg.Inputs == "" {
		return nil, fmt.Errorf("watch: no inputs")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		cfg:      cfg,
		tr:       tr,
		runner:   runner,
		fsw:      fsw,
		debounce: NewDebouncer(cfg.Debounce),
	}, nil
}

// Run blocks until ctx is cancelled. It returns the error of the initial
// run, or nil on cancellation. No re-run is in progress once Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer w.debounce.Stop()

	if err := w.addTree(w.cfg.Inputs); err != nil {
		return err
	}
	if w.cfg.Tables != "" {
		if err := w.fsw.Add(w.cfg.Tables); err != nil {
			return fmt.Errorf("watch: %s: %w", w.cfg.Tables, err)
		}
	}

	if err := w.runAll(ctx); err != nil {
		return err
	}
	logging.Info("watching",
		"inputs", w.cfg.Inputs, "tables", w.cfg.Tables, "debounce", w.cfg.Debounce.String())

	for {
		select {
		case <-ctx.Done():
			logging.Info("watch stopped")
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: event channel closed")
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: error channel closed")
			}
			logging.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return
	}
	logging.Debug("file event", "path", ev.Name, "op", ev.Op.String())

	if w.isTable(ev.Name) {
		w.debounce.Trigger(tablesKey, func() { w.reloadTables(ctx) })
		return
	}
	if w.cfg.OutDir != "" && within(w.cfg.OutDir, ev.Name) {
		return
	}
	if w.single && filepath.Clean(ev.Name) != filepath.Clean(w.cfg.Inputs) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				logging.Error("watch directory failed", "path", ev.Name, "error", err)
			}
			return
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if _, ok := corpus.Detect(ev.Name); !ok {
		return
	}
	path := ev.Name
	w.debounce.Trigger(path, func() { w.runFiles(ctx, []string{path}) })
}

// isTable reports whether path names the current script's table file.
func (w *Watcher) isTable(path string) bool {
	if w.cfg.Tables == "" || filepath.Clean(filepath.Dir(path)) != filepath.Clean(w.cfg.Tables) {
		return false
	}
	name := w.runner.Script().TableFile()
	base := filepath.Base(path)
	return base == name || base == name+".xz"
}

func (w *Watcher) reloadTables(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	script := w.runner.Script()
	tbl, err := w.tr.Reload(script)
	if err != nil {
		logging.Error("table reload failed, keeping previous table",
			"script", script.String(), "error", err)
		return
	}
	logging.Info("table reloaded", "script", script.String(), "digest", tbl.Digest)

	w.runMu.Lock()
	w.runner.ClearCache()
	w.runMu.Unlock()
	if err := w.runAll(ctx); err != nil && ctx.Err() == nil {
		logging.Error("re-run failed", "error", err)
	}
}

func (w *Watcher) runAll(ctx context.Context) error {
	paths, err := corpus.Walk(w.cfg.Inputs, nil)
	if err != nil {
		return err
	}
	if w.cfg.OutDir != "" {
		kept := paths[:0]
		for _, p := range paths {
			if !within(w.cfg.OutDir, p) {
				kept = append(kept, p)
			}
		}
		paths = kept
	}
	return w.run(ctx, paths)
}

func (w *Watcher) runFiles(ctx context.Context, paths []string) {
	if ctx.Err() != nil {
		return
	}
	if err := w.run(ctx, paths); err != nil && ctx.Err() == nil {
		logging.Error("re-run failed", "paths", paths, "error", err)
	}
}

func (w *Watcher) run(ctx context.Context, paths []string) error {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	rep, err := w.runner.Run(ctx, paths)
	if rep != nil && w.cfg.OnReport != nil {
		w.cfg.OnReport(rep)
	}
	return err
}

// addTree watches dir and its subdirectories. A file path watches its
// parent directory.
func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		w.single = true
		return w.fsw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if w.cfg.OutDir != "" && within(w.cfg.OutDir, path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: %s: %w", path, err)
		}
		return nil
	})
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
