// Command translit transliterates Hebrew and Greek Bible text into Latin
// script.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/bibletranslit/core/sqlite"
	"github.com/FocuswithJustin/bibletranslit/core/translit"
	"github.com/FocuswithJustin/bibletranslit/internal/batch"
	"github.com/FocuswithJustin/bibletranslit/internal/config"
	"github.com/FocuswithJustin/bibletranslit/internal/corpus"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
	"github.com/FocuswithJustin/bibletranslit/internal/watch"
)

const version = "1.0.0"

// CLI defines the command-line interface for translit.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"Configuration file (YAML)" type:"path"`
	TableDir  string `name:"tables" help:"Table directory (default: embedded tables)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: text, json"`

	Text    TextCmd     `cmd:"" help:"Transliterate text given as arguments or on stdin"`
	File    FileCmd     `cmd:"" help:"Transliterate files and directories"`
	Check   CheckCmd    `cmd:"" help:"Report Hebrew or Greek characters left in files"`
	Tables  TablesGroup `cmd:"" help:"Inspect transliteration tables"`
	Watch   WatchCmd    `cmd:"" help:"Re-run transliteration when inputs or tables change"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// TablesGroup contains table operations.
type TablesGroup struct {
	List   TablesListCmd   `cmd:"" help:"List the tables in use"`
	Dump   TablesDumpCmd   `cmd:"" help:"Print a table as source and target columns"`
	Verify TablesVerifyCmd `cmd:"" help:"Load every table strictly and report problems"`
}

// App carries what every command needs.
type App struct {
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Transliterator builds a Transliterator from the configuration.
func (a *App) Transliterator() *translit.Transliterator {
	var opts []translit.Option
	if a.Config.Tables.Dir != "" {
		opts = append(opts, translit.WithTableDir(a.Config.Tables.Dir))
	}
	if !a.Config.Tables.Strict {
		opts = append(opts, translit.WithLenientTables())
	}
	if a.Config.Tables.Normalize {
		opts = append(opts, translit.WithNFC())
	}
	return translit.New(opts...)
}

// TextCmd transliterates text.
type TextCmd struct {
	Script     translit.Script `short:"s" required:"" help:"Script: hebrew or greek"`
	Capitalize bool            `help:"Capitalize the first letter (Hebrew)"`
	Text       []string        `arg:"" optional:"" help:"Text to transliterate; stdin when omitted"`
}

func (c *TextCmd) Run(app *App) error {
	runner := batch.NewRunner(app.Transliterator(), app.Config.Batch.CacheSize, batch.Options{
		Script:     c.Script,
		Capitalize: c.Capitalize || app.Config.Batch.Capitalize,
	})

	emit := func(line string) error {
		out, converted, err := runner.Line(line)
		if err != nil {
			return err
		}
		if !converted {
			logging.Warn("no script characters found", "script", c.Script.String(), "text", line)
		}
		_, err = fmt.Fprintln(app.Stdout, out)
		return err
	}

	if len(c.Text) > 0 {
		return emit(strings.Join(c.Text, " "))
	}
	segs, err := corpus.ReadLines(app.Stdin)
	if err != nil {
		return err
	}
	for _, s := range segs {
		if err := emit(s.Text); err != nil {
			return err
		}
	}
	return nil
}

// FileCmd transliterates corpora.
type FileCmd struct {
	Paths      []string        `arg:"" help:"Files or directories" type:"path"`
	Script     translit.Script `short:"s" required:"" help:"Script: hebrew or greek"`
	Capitalize bool            `help:"Capitalize the first letter of each line (Hebrew)"`
	Out        string          `short:"o" help:"Output directory; stdout when omitted" type:"path"`
	Ext        []string        `help:"Only read files with these extensions"`
	Report     string          `help:"Write the JSON report to this file" type:"path"`
}

func (c *FileCmd) Run(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var paths []string
	for _, p := range c.Paths {
		found, err := corpus.Walk(p, c.Ext)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}

	opts := batch.Options{
		Script:     c.Script,
		Capitalize: c.Capitalize || app.Config.Batch.Capitalize,
		Check:      app.Config.Batch.Check,
		OutDir:     c.Out,
	}
	if c.Out == "" {
		opts.Out = app.Stdout
	}
	if len(c.Paths) == 1 {
		if info, err := os.Stat(c.Paths[0]); err == nil && info.IsDir() {
			opts.Root = c.Paths[0]
		}
	}

	runner := batch.NewRunner(app.Transliterator(), app.Config.Batch.CacheSize, opts)
	rep, err := runner.Run(ctx, paths)
	if rep != nil && c.Report != "" {
		if werr := writeReport(c.Report, rep); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	printSummary(app.Stderr, rep)
	if !rep.OK() {
		return fmt.Errorf("%d failed segments, %d findings, %d unreadable files",
			rep.Failed(), rep.FindingCount(), rep.FileErrors())
	}
	return nil
}

// CheckCmd validates existing output.
type CheckCmd struct {
	Paths []string `arg:"" help:"Files or directories to check" type:"path"`
}

func (c *CheckCmd) Run(app *App) error {
	var paths []string
	for _, p := range c.Paths {
		found, err := corpus.Walk(p, nil)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	rep, err := batch.Check(context.Background(), paths)
	if err != nil {
		return err
	}
	for _, f := range rep.Files {
		if f.Error != "" {
			fmt.Fprintf(app.Stdout, "%s: %s\n", f.Path, f.Error)
		}
		for _, fd := range f.Findings {
			loc := fmt.Sprintf("%d", fd.Line)
			if fd.Ref != "" {
				loc = fd.Ref
			}
			fmt.Fprintf(app.Stdout, "%s:%s:%d: %q U+%04X %s\n", f.Path, loc, fd.Column+1, fd.Char, fd.Char, fd.Name)
		}
	}
	if !rep.OK() {
		return fmt.Errorf("%d findings in %d files", rep.FindingCount(), len(rep.Files))
	}
	fmt.Fprintf(app.Stdout, "%d files clean\n", len(rep.Files))
	return nil
}

// TablesListCmd lists the loaded tables.
type TablesListCmd struct{}

func (c *TablesListCmd) Run(app *App) error {
	tr := app.Transliterator()
	for _, s := range translit.Scripts() {
		tbl, err := tr.Load(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Stdout, "%-7s %-24s %5d rules  %d issues  blake3:%s\n",
			s, tbl.Name, tbl.Len(), len(tbl.Issues), tbl.Digest)
	}
	return nil
}

// TablesDumpCmd prints one table.
type TablesDumpCmd struct {
	Script translit.Script `arg:"" help:"Script: hebrew or greek"`
}

func (c *TablesDumpCmd) Run(app *App) error {
	tbl, err := app.Transliterator().Load(c.Script)
	if err != nil {
		return err
	}
	_, err = tbl.WriteTo(app.Stdout)
	return err
}

// TablesVerifyCmd loads every table in strict mode.
type TablesVerifyCmd struct{}

func (c *TablesVerifyCmd) Run(app *App) error {
	cfg := *app.Config
	cfg.Tables.Strict = true
	tr := (&App{Config: &cfg}).Transliterator()

	failed := 0
	for _, s := range translit.Scripts() {
		tbl, err := tr.Load(s)
		if err != nil {
			failed++
			fmt.Fprintf(app.Stdout, "%s: FAIL %v\n", s, err)
			continue
		}
		for _, is := range tbl.Issues {
			fmt.Fprintf(app.Stdout, "%s: line %d: %s: %s\n", s, is.Line, is.Kind, is.Detail)
		}
		fmt.Fprintf(app.Stdout, "%s: OK %d rules\n", s, tbl.Len())
	}
	if failed > 0 {
		return fmt.Errorf("%d tables failed verification", failed)
	}
	return nil
}

// WatchCmd watches inputs and tables.
type WatchCmd struct {
	Inputs     string          `arg:"" help:"File or directory to watch" type:"existingpath"`
	Script     translit.Script `short:"s" required:"" help:"Script: hebrew or greek"`
	Capitalize bool            `help:"Capitalize the first letter of each line (Hebrew)"`
	Out        string          `short:"o" required:"" help:"Output directory" type:"path"`
}

func (c *WatchCmd) Run(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr := app.Transliterator()
	opts := batch.Options{
		Script:     c.Script,
		Capitalize: c.Capitalize || app.Config.Batch.Capitalize,
		Check:      app.Config.Batch.Check,
		OutDir:     c.Out,
	}
	if info, err := os.Stat(c.Inputs); err == nil && info.IsDir() {
		opts.Root = c.Inputs
	}
	runner := batch.NewRunner(tr, app.Config.Batch.CacheSize, opts)

	w, err := watch.New(watch.Config{
		Inputs:   c.Inputs,
		Tables:   app.Config.Tables.Dir,
		OutDir:   c.Out,
		Debounce: app.Config.Watch.Debounce,
		OnReport: func(r *batch.Report) { printSummary(app.Stderr, r) },
	}, tr, runner)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(app.Stdout, "translit version %s (sqlite: %s, %s)\n", version, info.Package, info.DriverType)
	return nil
}

func printSummary(w io.Writer, rep *batch.Report) {
	for _, f := range rep.Files {
		status := "ok"
		switch {
		case f.Error != "":
			status = "error: " + f.Error
		case len(f.Failures) > 0 || len(f.Findings) > 0:
			status = fmt.Sprintf("%d failed, %d findings", len(f.Failures), len(f.Findings))
		}
		fmt.Fprintf(w, "%s: %d segments, %d transliterated: %s\n", f.Path, f.Segments, f.Transliterated, status)
	}
}

func writeReport(path string, rep *batch.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	werr := rep.WriteJSON(f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}

// loadConfig reads the configuration and applies global flags over it.
func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.TableDir != "" {
		cfg.Tables.Dir = cli.TableDir
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyLogging()
	return cfg, nil
}

// run parses args and executes the selected command, returning the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("translit"),
		kong.Description("Hebrew and Greek Bible transliteration"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// --help and similar exit during parsing.
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	cfg, err := loadConfig(&cli)
	if err != nil {
		fmt.Fprintf(stderr, "translit: %v\n", err)
		return 1
	}

	app := &App{Config: cfg, Stdin: stdin, Stdout: stdout, Stderr: stderr}
	if err := kctx.Run(app); err != nil {
		logging.Error("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintf(stderr, "translit: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], bufio.NewReader(os.Stdin), os.Stdout, os.Stderr))
}
