// Package errors provides the error kinds shared by the transliteration
// engine, the corpus readers and the command-line tools.
//
// Every error in the module unwraps to one of the sentinels below. The
// item-level sentinels (non-convergence, residual script, post-condition)
// also match ErrInternal, and KindOf names the most specific one for
// reports and logs.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindIO             Kind = "io"
	KindUnsupported    Kind = "unsupported"
	KindIntegrity      Kind = "integrity"
	KindInternal       Kind = "internal"
	KindNonConvergence Kind = "non_convergence"
	KindResidualScript Kind = "residual_script"
	KindPostCondition  Kind = "post_condition"
)

// sentinel is a comparable error value carrying a Kind. A sentinel with a
// parent also matches the parent under errors.Is.
type sentinel struct {
	msg    string
	kind   Kind
	parent error
}

func (s *sentinel) Error() string { return s.msg }

func (s *sentinel) Unwrap() error { return s.parent }

var (
	ErrNotFound     error = &sentinel{msg: "not found", kind: KindNotFound}
	ErrInvalidInput error = &sentinel{msg: "invalid input", kind: KindInvalidInput}
	ErrUnsupported  error = &sentinel{msg: "unsupported", kind: KindUnsupported}
	// ErrInternal marks a rule or table defect rather than bad input.
	ErrInternal error = &sentinel{msg: "internal error", kind: KindInternal}

	// ErrIntegrity marks a table that breaks a data integrity rule.
	ErrIntegrity error = &sentinel{msg: "table integrity violated", kind: KindIntegrity, parent: ErrInvalidInput}

	ErrNonConvergence error = &sentinel{msg: "pass did not converge", kind: KindNonConvergence, parent: ErrInternal}
	ErrResidualScript error = &sentinel{msg: "script characters left in output", kind: KindResidualScript, parent: ErrInternal}
	ErrPostCondition  error = &sentinel{msg: "post-condition violated", kind: KindPostCondition, parent: ErrInternal}
)

// KindOf returns the most specific Kind in err's chain. Errors from outside
// the module are KindInternal; nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var s *sentinel
	if errors.As(err, &s) {
		return s.kind
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return KindIO
	}
	return KindInternal
}

// IsItemFailure reports whether err fails a single segment without
// invalidating the table: non-convergence, residual script or a
// post-condition violation.
func IsItemFailure(err error) bool {
	switch KindOf(err) {
	case KindNonConvergence, KindResidualScript, KindPostCondition:
		return true
	}
	return false
}

// NotFoundError reports a missing table, corpus or config file.
type NotFoundError struct {
	Resource string // "table", "corpus", "config file"
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError names a configuration or request field with a bad value.
type ValidationError struct {
	Field   string // dotted path, e.g. "log.level"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidation creates a ValidationError.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IOError wraps a failed read, write or decompression.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIO creates an IOError.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ParseError reports malformed TSV, OSIS, YAML or reference input.
type ParseError struct {
	Format  string
	Path    string
	Message string
	Err     error // decoder error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

// Unwrap returns the decoder error alongside ErrInvalidInput.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// NewParse creates a ParseError.
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// UnsupportedError reports an unknown script or corpus format.
type UnsupportedError struct {
	Feature string
	Reason  string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return "unsupported " + e.Feature
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// NewUnsupported creates an UnsupportedError.
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}
