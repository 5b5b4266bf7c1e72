package translit

import (
	"strings"
	"testing"
)

func TestCheckLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantNil  bool
		wantCol  int
		wantChar rune
	}{
		{"clean latin", "bərēʼshiyt bārāʼ", true, 0, 0},
		{"allow-list punctuation", `ʼ,.?!:;-–/\1234567890“”‘’()¶…©`, true, 0, 0},
		{"combining macron", "Yēsou", true, 0, 0},
		{"unnamed codepoint skipped", "a\u0378b", true, 0, 0},
		{"hebrew letter", "bārā א", false, 5, 'א'},
		{"hebrew point", "b\u05b0", false, 1, '\u05b0'},
		{"greek letter", "logos λ", false, 6, 'λ'},
		{"greek combining", "a\u0345", false, 1, '\u0345'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := CheckLine(tt.line)
			if tt.wantNil {
				if f != nil {
					t.Errorf("CheckLine(%q) = %v, want nil", tt.line, f)
				}
				return
			}
			if f == nil {
				t.Fatalf("CheckLine(%q) = nil, want finding", tt.line)
			}
			if f.Column != tt.wantCol || f.Char != tt.wantChar {
				t.Errorf("CheckLine(%q) = col %d %q, want col %d %q", tt.line, f.Column, f.Char, tt.wantCol, tt.wantChar)
			}
			if f.Name == "" {
				t.Error("finding has no Unicode name")
			}
		})
	}
}

func TestFindResidual(t *testing.T) {
	text := "clean line\nanother\nthird ב here\nלא"
	f := FindResidual(text)
	if f == nil {
		t.Fatal("FindResidual = nil")
	}
	if f.Line != 3 || f.Column != 6 || f.Char != 'ב' {
		t.Errorf("FindResidual = %+v, want line 3 column 6 ב", f)
	}
	if f.Name != "HEBREW LETTER BET" {
		t.Errorf("Name = %q, want HEBREW LETTER BET", f.Name)
	}
	if !strings.Contains(f.String(), "U+05D1") {
		t.Errorf("String() = %q, want codepoint", f.String())
	}
	if FindResidual("a\nb\n") != nil {
		t.Error("FindResidual on clean text should be nil")
	}
}

func TestCheckText(t *testing.T) {
	logs := captureLogs(t)
	if !CheckText("hashshāmayim\nwəʼēt hāʼāreʦ.") {
		t.Error("CheckText on clean output = false")
	}
	if logs.Len() != 0 {
		t.Errorf("clean text logged %q", logs.String())
	}
	if CheckText("ok\nλόγος") {
		t.Error("CheckText on Greek = true")
	}
	out := logs.String()
	if !strings.Contains(out, "CRITICAL") || !strings.Contains(out, "line=2") {
		t.Errorf("expected CRITICAL with line number, got %q", out)
	}
}
