// Package ipc implements the tool plugin protocol.
//
// A tool plugin binary answers three subcommands:
//
//	info                             print ToolInfo as JSON
//	run --request <path> --out <dir> execute a profile, writing a transcript
//	ipc                              serve JSON line requests on stdin
package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// ToolInfo represents plugin metadata for the info command.
type ToolInfo struct {
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Type        string        `json:"type"` // always "tool"
	Description string        `json:"description"`
	Profiles    []ProfileInfo `json:"profiles,omitempty"`
}

// ProfileInfo describes a single tool profile.
type ProfileInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ToolRunRequest is the request file read by the run command.
type ToolRunRequest struct {
	Profile string            `json:"profile"`
	Args    map[string]string `json:"args,omitempty"`
	OutDir  string            `json:"out_dir"`
}

// Arg returns a required argument.
func (r *ToolRunRequest) Arg(name string) (string, error) {
	v := r.Args[name]
	if v == "" {
		return "", fmt.Errorf("%s argument required", name)
	}
	return v, nil
}

// ToolIPCRequest is one line of the ipc command's input.
type ToolIPCRequest struct {
	Command string            `json:"command"`
	Path    string            `json:"path,omitempty"`
	Args    map[string]string `json:"args,omitempty"`
}

// BoolArg returns args[name] parsed as a bool, or def when absent or
// malformed.
func BoolArg(args map[string]string, name string, def bool) bool {
	v, ok := args[name]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// ToolIPCResponse is one line of the ipc command's output.
type ToolIPCResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ProfileHandler executes one profile.
type ProfileHandler func(*ToolRunRequest, *Transcript) error

// ToolConfig describes a tool plugin.
type ToolConfig struct {
	PluginName string
	Info       ToolInfo
	Profiles   map[string]ProfileHandler
	// IPCHandler serves commands other than info. Nil answers only info.
	IPCHandler func(*ToolIPCRequest) ToolIPCResponse
}

// PrintToolInfo writes info as indented JSON.
func PrintToolInfo(w io.Writer, info ToolInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

// ServeIPC answers JSON line requests from r until EOF.
func ServeIPC(r io.Reader, w io.Writer, config *ToolConfig) error {
	reader := bufio.NewReader(r)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if encErr := encoder.Encode(handleLine(line, config)); encErr != nil {
				return encErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func handleLine(line string, config *ToolConfig) ToolIPCResponse {
	var req ToolIPCRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return ToolIPCResponse{Error: err.Error()}
	}
	if req.Command == "info" {
		return ToolIPCResponse{
			Success: true,
			Data: map[string]interface{}{
				"name":    config.Info.Name,
				"version": config.Info.Version,
				"type":    config.Info.Type,
			},
		}
	}
	if config.IPCHandler != nil {
		return config.IPCHandler(&req)
	}
	return ToolIPCResponse{Error: "unknown command: " + req.Command}
}

// ParseToolFlags reads --request and --out from the arguments that follow
// the run subcommand.
func ParseToolFlags(args []string) (reqPath, outDir string, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--request":
			if i+1 < len(args) {
				reqPath = args[i+1]
				i++
			}
		case "--out":
			if i+1 < len(args) {
				outDir = args[i+1]
				i++
			}
		}
	}
	if reqPath == "" || outDir == "" {
		return "", "", fmt.Errorf("usage: run --request <path> --out <dir>")
	}
	return reqPath, outDir, nil
}

// LoadToolRequest reads the request at reqPath and creates outDir.
func LoadToolRequest(reqPath, outDir string) (*ToolRunRequest, error) {
	data, err := os.ReadFile(reqPath)
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}
	var req ToolRunRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}
	req.OutDir = outDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	return &req, nil
}

// Execute runs the requested profile between start and end transcript
// events. The profile's error, if any, is recorded and returned.
func Execute(req *ToolRunRequest, config *ToolConfig) error {
	transcript := NewTranscript(req.OutDir)
	defer transcript.Close()

	transcript.WriteEvent(TranscriptEvent{
		Event:     "start",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Plugin:    config.PluginName,
		Profile:   req.Profile,
	})

	var err error
	if handler, ok := config.Profiles[req.Profile]; ok {
		err = handler(req, transcript)
	} else {
		err = fmt.Errorf("unknown profile: %s", req.Profile)
	}

	exitCode := 0
	if err != nil {
		exitCode = 1
		transcript.WriteEvent(TranscriptEvent{Event: "error", Error: err.Error()})
	}
	transcript.WriteEvent(TranscriptEvent{
		Event:     "end",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ExitCode:  exitCode,
	})
	return err
}

// Main dispatches a plugin's subcommands and returns the process exit code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer, config *ToolConfig) int {
	if len(args) < 1 {
		fmt.Fprintf(stderr, "usage: %s info|run|ipc\n", config.PluginName)
		return 2
	}
	switch args[0] {
	case "info":
		if err := PrintToolInfo(stdout, config.Info); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	case "run":
		reqPath, outDir, err := ParseToolFlags(args[1:])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		req, err := LoadToolRequest(reqPath, outDir)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := Execute(req, config); err != nil {
			fmt.Fprintf(stderr, "profile execution failed: %v\n", err)
			return 1
		}
	case "ipc":
		if err := ServeIPC(stdin, stdout, config); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		return 2
	}
	return 0
}
