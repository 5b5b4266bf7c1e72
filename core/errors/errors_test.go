package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestSentinelHierarchy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		parent error
	}{
		{"integrity is invalid input", ErrIntegrity, ErrInvalidInput},
		{"non-convergence is internal", ErrNonConvergence, ErrInternal},
		{"residual script is internal", ErrResidualScript, ErrInternal},
		{"post-condition is internal", ErrPostCondition, ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.parent) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.parent)
			}
			if errors.Is(tt.parent, tt.err) {
				t.Errorf("errors.Is(%v, %v) = true, parent must not match child", tt.parent, tt.err)
			}
		})
	}
	if errors.Is(ErrNonConvergence, ErrResidualScript) {
		t.Error("sibling kinds must not match")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"not found", NewNotFound("table", "Hebrew.tsv"), KindNotFound},
		{"validation", NewValidation("log.level", "bad"), KindInvalidInput},
		{"unsupported", NewUnsupported("script", "Syriac"), KindUnsupported},
		{"parse", NewParse("YAML", "translit.yaml", "bad"), KindInvalidInput},
		{"io", NewIO("read", "gen.txt", fs.ErrPermission), KindIO},
		{"wrapped residual", fmt.Errorf("Gen.1.1: %w", ErrResidualScript), KindResidualScript},
		{"wrapped integrity", fmt.Errorf("load: %w", ErrIntegrity), KindIntegrity},
		{"foreign error", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsItemFailure(t *testing.T) {
	for _, err := range []error{ErrNonConvergence, ErrResidualScript, fmt.Errorf("x: %w", ErrPostCondition)} {
		if !IsItemFailure(err) {
			t.Errorf("IsItemFailure(%v) = false", err)
		}
	}
	for _, err := range []error{nil, ErrInternal, ErrIntegrity, NewNotFound("table", "x"), errors.New("boom")} {
		if IsItemFailure(err) {
			t.Errorf("IsItemFailure(%v) = true", err)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewNotFound("table", "Hebrew.tsv"), "table not found: Hebrew.tsv"},
		{NewNotFound("corpus", ""), "corpus not found"},
		{NewValidation("batch.cache_size", "must not be negative"), "validation failed for batch.cache_size: must not be negative"},
		{NewValidation("", "no inputs"), "validation failed: no inputs"},
		{NewIO("write", "/tmp/out.txt", fs.ErrPermission), "failed to write /tmp/out.txt: permission denied"},
		{NewIO("decompress", "", fs.ErrPermission), "failed to decompress: permission denied"},
		{NewParse("OSIS", "", "malformed tag"), "failed to parse OSIS: malformed tag"},
		{NewUnsupported("corpus format", ""), "unsupported corpus format"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	pe := NewParse("YAML", "translit.yaml", "invalid syntax")
	pe.Err = cause
	if !errors.Is(pe, cause) {
		t.Error("ParseError should match its decoder error")
	}
	if !errors.Is(pe, ErrInvalidInput) {
		t.Error("ParseError should match ErrInvalidInput")
	}

	var target *ParseError
	if !errors.As(fmt.Errorf("loading: %w", pe), &target) || target.Path != "translit.yaml" {
		t.Errorf("errors.As did not recover the ParseError: %+v", target)
	}
}

func TestIOErrorUnwrap(t *testing.T) {
	err := NewIO("open", "gen.txt", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("IOError should unwrap to its cause")
	}
}
