// Plugin tool-translit transliterates Hebrew and Greek Bible text.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/bibletranslit/core/translit"
	"github.com/FocuswithJustin/bibletranslit/internal/batch"
	"github.com/FocuswithJustin/bibletranslit/internal/corpus"
	"github.com/FocuswithJustin/bibletranslit/plugins/ipc"
)

// Output files written by the run profiles.
const (
	outputFile = "output.txt"
	reportFile = "report.json"
)

// TranscriptEvent extends the base event with the input file.
type TranscriptEvent struct {
	ipc.TranscriptEvent
	InputFile string `json:"input_file,omitempty"`
}

func main() {
	os.Exit(ipc.Main(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, toolConfig()))
}

func toolConfig() *ipc.ToolConfig {
	return &ipc.ToolConfig{
		PluginName: "tool-translit",
		Info: ipc.ToolInfo{
			Name:        "tool-translit",
			Version:     "1.0.0",
			Type:        "tool",
			Description: "Hebrew and Greek Bible transliteration",
			Profiles: []ipc.ProfileInfo{
				{ID: "hebrew", Description: "Transliterate Hebrew text"},
				{ID: "hebrew-title", Description: "Transliterate Hebrew text, capitalizing the first letter"},
				{ID: "greek", Description: "Transliterate Greek text"},
				{ID: "check", Description: "Report Hebrew or Greek characters left in text"},
			},
		},
		Profiles: map[string]ipc.ProfileHandler{
			"hebrew":       profileTransliterate(translit.Hebrew, false),
			"hebrew-title": profileTransliterate(translit.Hebrew, true),
			"greek":        profileTransliterate(translit.Greek, false),
			"check":        profileCheck,
		},
		IPCHandler: handleIPC,
	}
}

// newTransliterator builds a Transliterator from the optional "tables" and
// "lenient" arguments.
func newTransliterator(args map[string]string) *translit.Transliterator {
	var opts []translit.Option
	if dir := args["tables"]; dir != "" {
		opts = append(opts, translit.WithTableDir(dir))
	}
	if ipc.BoolArg(args, "lenient", false) {
		opts = append(opts, translit.WithLenientTables())
	}
	if ipc.BoolArg(args, "nfc", false) {
		opts = append(opts, translit.WithNFC())
	}
	return translit.New(opts...)
}

func profileTransliterate(script translit.Script, capitalize bool) ipc.ProfileHandler {
	return func(req *ipc.ToolRunRequest, transcript *ipc.Transcript) error {
		input, err := req.Arg("input")
		if err != nil {
			return err
		}
		transcript.WriteEvent(TranscriptEvent{
			TranscriptEvent: ipc.TranscriptEvent{Event: "transliterate_start"},
			InputFile:       input,
		})

		ctx := context.Background()
		doc, err := corpus.Open(ctx, input)
		if err != nil {
			return err
		}

		runner := batch.NewRunner(newTransliterator(req.Args), 4096, batch.Options{
			Script:     script,
			Capitalize: capitalize,
			Check:      true,
		})
		fr := &batch.FileReport{Path: input, Format: doc.Format}
		out, err := runner.Convert(ctx, doc, fr)
		if err != nil {
			return err
		}

		outPath := filepath.Join(req.OutDir, outputFile)
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		werr := corpus.Write(f, out)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return werr
		}

		if err := writeReport(req.OutDir, &batch.Report{Script: script.String(), Files: []*batch.FileReport{fr}}); err != nil {
			return err
		}

		transcript.WriteEvent(TranscriptEvent{
			TranscriptEvent: ipc.TranscriptEvent{
				Event: "transliterate_end",
				Data: map[string]interface{}{
					"output_file":    outPath,
					"segments":       fr.Segments,
					"transliterated": fr.Transliterated,
					"failures":       len(fr.Failures),
					"findings":       len(fr.Findings),
				},
			},
			InputFile: input,
		})
		if n := len(fr.Failures); n > 0 {
			return fmt.Errorf("%d segments failed", n)
		}
		return nil
	}
}

func profileCheck(req *ipc.ToolRunRequest, transcript *ipc.Transcript) error {
	input, err := req.Arg("input")
	if err != nil {
		return err
	}
	transcript.WriteEvent(TranscriptEvent{
		TranscriptEvent: ipc.TranscriptEvent{Event: "check_start"},
		InputFile:       input,
	})

	rep, err := batch.Check(context.Background(), []string{input})
	if err != nil {
		return err
	}
	if err := writeReport(req.OutDir, rep); err != nil {
		return err
	}

	transcript.WriteEvent(TranscriptEvent{
		TranscriptEvent: ipc.TranscriptEvent{
			Event: "check_end",
			Data:  map[string]interface{}{"findings": rep.FindingCount()},
		},
		InputFile: input,
	})
	if fe := rep.Files[0].Error; fe != "" {
		return fmt.Errorf("%s", fe)
	}
	if n := rep.FindingCount(); n > 0 {
		return fmt.Errorf("%d lines hold untransliterated characters", n)
	}
	return nil
}

func writeReport(dir string, rep *batch.Report) error {
	f, err := os.Create(filepath.Join(dir, reportFile))
	if err != nil {
		return err
	}
	werr := rep.WriteJSON(f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}

// handleIPC serves the check and transliterate commands.
func handleIPC(req *ipc.ToolIPCRequest) ipc.ToolIPCResponse {
	switch req.Command {
	case "check":
		text := req.Args["text"]
		if req.Path != "" {
			data, err := os.ReadFile(req.Path)
			if err != nil {
				return ipc.ToolIPCResponse{Error: err.Error()}
			}
			text = string(data)
		}
		f := translit.FindResidual(text)
		if f == nil {
			return ipc.ToolIPCResponse{Success: true, Data: map[string]interface{}{"clean": true}}
		}
		return ipc.ToolIPCResponse{
			Success: true,
			Data:    map[string]interface{}{"clean": false, "finding": f},
		}

	case "transliterate":
		script, err := translit.ParseScript(req.Args["script"])
		if err != nil {
			return ipc.ToolIPCResponse{Error: err.Error()}
		}
		tr := newTransliterator(req.Args)
		out, err := tr.Transliterate(script, req.Args["text"], translit.Options{
			Capitalize: ipc.BoolArg(req.Args, "capitalize", false),
		})
		if err != nil {
			return ipc.ToolIPCResponse{Error: err.Error()}
		}
		return ipc.ToolIPCResponse{Success: true, Data: map[string]string{"output": out}}
	}
	return ipc.ToolIPCResponse{Error: "unknown command: " + req.Command}
}
