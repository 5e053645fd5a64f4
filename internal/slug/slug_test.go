package slug

import (
	"slices"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already a tag", "ux-research", "ux-research"},
		{"spaces", "UX Research", "ux-research"},
		{"underscore", "adobe_xd", "adobe-xd"},
		{"mixed separators", "Design / Systems", "design-systems"},
		{"punctuation", "Figma!", "figma"},
		{"surrounding space", "  Miro  ", "miro"},
		{"leading and trailing hyphens", "--web--", "web"},
		{"collapse hyphens", "proto---pie", "proto-pie"},
		{"digits", "Web 3", "web-3"},
		{"unicode letters dropped", "café", "caf"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that a valid tag maps to itself.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"portfolio", "design-systems", "adobe-xd", "a", "123"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want %q", s, got, s)
			}
		})
	}
}

func TestTags(t *testing.T) {
	got := Tags([]string{"Figma", "figma", " ", "Adobe XD", "adobe-xd", "Miro"})
	want := []string{"figma", "adobe-xd", "miro"}
	if !slices.Equal(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
	if got := Tags(nil); got == nil || len(got) != 0 {
		t.Errorf("Tags(nil) = %#v, want empty non-nil slice", got)
	}
}
