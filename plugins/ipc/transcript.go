package ipc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TranscriptFile is the name of the transcript in a run's output dir.
const TranscriptFile = "transcript.jsonl"

// TranscriptEvent is the common shape of transcript lines. Profiles embed
// it in their own event types to add fields.
type TranscriptEvent struct {
	Event     string      `json:"event"`
	Timestamp string      `json:"timestamp,omitempty"`
	Plugin    string      `json:"plugin,omitempty"`
	Profile   string      `json:"profile,omitempty"`
	Error     string      `json:"error,omitempty"`
	ExitCode  int         `json:"exit_code,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Transcript writes JSONL events to transcript.jsonl. When the file cannot
// be created, writes are dropped and the profile still runs.
type Transcript struct {
	file *os.File
	enc  *json.Encoder
}

// NewTranscript creates the transcript in outDir.
func NewTranscript(outDir string) *Transcript {
	f, err := os.Create(filepath.Join(outDir, TranscriptFile))
	if err != nil {
		return &Transcript{}
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	return &Transcript{file: f, enc: enc}
}

// WriteEvent appends one event.
func (t *Transcript) WriteEvent(event interface{}) {
	if t.enc != nil {
		_ = t.enc.Encode(event)
	}
}

// Close closes the transcript file.
func (t *Transcript) Close() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
		t.enc = nil
	}
}
