package batch

import (
	"context"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/bibletranslit/core/translit"
	"github.com/FocuswithJustin/bibletranslit/internal/corpus"
	"github.com/FocuswithJustin/bibletranslit/internal/logging"
)

// Check runs the validator over existing output files and reports every
// line that still holds Hebrew or Greek characters.
func Check(ctx context.Context, paths []string) (*Report, error) {
	rep := &Report{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, rep.RunID)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		fr := &FileReport{Path: path}
		rep.Files = append(rep.Files, fr)

		doc, err := corpus.Open(ctx, path)
		if err != nil {
			fr.Error = err.Error()
			logging.ErrorContext(ctx, "input_failed", "path", path, "error", err)
			continue
		}
		fr.Format = doc.Format
		for i, seg := range doc.Segments {
			fr.Segments++
			f := translit.CheckLine(seg.Text)
			if f == nil {
				fr.Passed++
				continue
			}
			line := i + 1
			fr.Findings = append(fr.Findings, Finding{Line: line, Ref: seg.Ref, Finding: *f})
			logging.Critical("untransliterated character",
				"path", path, "ref", refOrLine(seg.Ref, line),
				"column", f.Column, "char", string(f.Char), "name", f.Name)
		}
	}
	return rep, nil
}
