package translit

import "testing"

func TestFindSpan(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		script Script
		want   Span
		found  bool
	}{
		{"pure hebrew", "שָׁלוֹם", Hebrew, Span{0, 7}, true},
		{"verse marker prefix", `\v 1 אֵת.`, Hebrew, Span{5, 8}, true},
		{"markup both sides", "<w>λόγος</w>", Greek, Span{3, 8}, true},
		{"greek combining mark counts", "a\u0345b", Greek, Span{1, 2}, true},
		{"unnamed codepoints skipped", "\u0378αβ\u0378", Greek, Span{1, 3}, true},
		{"hebrew not greek", "שָׁלוֹם", Greek, Span{}, false},
		{"latin only", "In the beginning", Hebrew, Span{}, false},
		{"empty", "", Greek, Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindSpan(tt.text, tt.script)
			if ok != tt.found || got != tt.want {
				t.Errorf("FindSpan(%q) = %+v, %v; want %+v, %v", tt.text, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestSpanSplit(t *testing.T) {
	text := `\v 1 בְּרֵאשִׁית ¶`
	span, ok := FindSpan(text, Hebrew)
	if !ok {
		t.Fatal("span not found")
	}
	prefix, body, suffix := span.Split(text)
	if prefix != `\v 1 ` || body != "בְּרֵאשִׁית" || suffix != " ¶" {
		t.Errorf("Split = %q, %q, %q", prefix, body, suffix)
	}
	if span.Len() != len([]rune(body)) {
		t.Errorf("Len() = %d, want %d", span.Len(), len([]rune(body)))
	}
}

func TestSpanSplitToEnd(t *testing.T) {
	text := "(αβ"
	span, _ := FindSpan(text, Greek)
	prefix, body, suffix := span.Split(text)
	if prefix != "(" || body != "αβ" || suffix != "" {
		t.Errorf("Split = %q, %q, %q", prefix, body, suffix)
	}
}

func TestSpanWithTrailingMarks(t *testing.T) {
	tests := []struct {
		text string
		want Span
	}{
		{"βα\u0301", Span{0, 3}},
		{"βα\u0301\u0308 x", Span{0, 4}},
		{"βα x\u0301", Span{0, 2}},
		{"βα", Span{0, 2}},
	}
	for _, tt := range tests {
		span, ok := FindSpan(tt.text, Greek)
		if !ok {
			t.Fatalf("FindSpan(%q) found nothing", tt.text)
		}
		if got := span.WithTrailingMarks(tt.text); got != tt.want {
			t.Errorf("WithTrailingMarks(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}
