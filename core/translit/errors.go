package translit

import (
	"fmt"
	"strings"

	cerrors "github.com/FocuswithJustin/bibletranslit/core/errors"
)

// LoadError reports a table that could not be found or read.
type LoadError struct {
	Script Script
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s table %s: %v", e.Script, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a table that violates a data integrity rule: a
// missing or empty source column, or duplicate sources in strict mode.
type IntegrityError struct {
	Table    string
	Problems []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("table %s failed integrity checks: %s", e.Table, strings.Join(e.Problems, "; "))
}

func (e *IntegrityError) Unwrap() error {
	return cerrors.ErrIntegrity
}

// NonConvergenceError reports a bounded pass that hit its iteration cap.
type NonConvergenceError struct {
	Pass  string
	Limit int
	Word  string
}

func (e *NonConvergenceError) Error() string {
	if e.Word != "" {
		return fmt.Sprintf("%s pass did not converge after %d iterations in %q", e.Pass, e.Limit, e.Word)
	}
	return fmt.Sprintf("%s pass did not converge after %d iterations", e.Pass, e.Limit)
}

func (e *NonConvergenceError) Unwrap() error {
	return cerrors.ErrNonConvergence
}

// ResidualScriptError reports script codepoints left in an output.
type ResidualScriptError struct {
	Script Script
	Char   rune
	Name   string
	Offset int // rune offset in the output
}

func (e *ResidualScriptError) Error() string {
	return fmt.Sprintf("residual %s character %q (U+%04X %s) at offset %d",
		e.Script, e.Char, e.Char, e.Name, e.Offset)
}

func (e *ResidualScriptError) Unwrap() error {
	return cerrors.ErrResidualScript
}

// PostConditionError reports a word that still violates a repair rule after
// the repair passes ran.
type PostConditionError struct {
	Rule string
	Word string
}

func (e *PostConditionError) Error() string {
	return fmt.Sprintf("post-condition %q violated by word %q", e.Rule, e.Word)
}

func (e *PostConditionError) Unwrap() error {
	return cerrors.ErrPostCondition
}

// IsFatal reports whether err signals a table or rule defect for a single
// item: non-convergence, a post-condition violation or residual script.
func IsFatal(err error) bool {
	return cerrors.IsItemFailure(err)
}
