package moderation

import (
	"strings"
	"testing"
)

func TestCleanMasksDictionaryWords(t *testing.T) {
	f := NewFilter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single word", "this is shit", "this is ****"},
		{"preserves case length", "FUCK this", "**** this"},
		{"word boundary not substring", "classic assessment", "classic assessment"},
		{"multiple occurrences", "shit and more shit", "**** and more ****"},
		{"clean text untouched", "a perfectly fine post", "a perfectly fine post"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanStripsHTML(t *testing.T) {
	f := NewFilter()

	got := f.Clean(`hello <script>alert(1)</script>world`)
	if strings.Contains(got, "<script>") {
		t.Errorf("Clean left script tag in %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("Clean dropped surrounding text: %q", got)
	}
}

func TestCleanExtraWords(t *testing.T) {
	f := NewFilter("covfefe")

	if got := f.Clean("total covfefe here"); got != "total ******* here" {
		t.Errorf("Clean = %q, want %q", got, "total ******* here")
	}
}

func TestEmptyFilterPassesThrough(t *testing.T) {
	f := NewEmptyFilter()

	in := "fuck is allowed with no dictionary"
	if got := f.Clean(in); got != in {
		t.Errorf("Clean = %q, want input unchanged", got)
	}
}

func TestCleanDeterministic(t *testing.T) {
	f := NewFilter()

	in := "some shit input"
	first := f.Clean(in)
	for i := 0; i < 10; i++ {
		if got := f.Clean(in); got != first {
			t.Fatalf("Clean not deterministic: %q vs %q", got, first)
		}
	}
}
