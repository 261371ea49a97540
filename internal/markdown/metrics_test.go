package markdown

import (
	"strings"
	"testing"
)

func TestMeasure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Metrics
	}{
		{"empty", "", Metrics{Words: 0, Characters: 0, Lines: 1, ReadingMinutes: 0}},
		{"two lines", "Hello world\nsecond line", Metrics{Words: 4, Characters: 23, Lines: 2, ReadingMinutes: 1}},
		{"trailing newline", "a\n", Metrics{Words: 1, Characters: 2, Lines: 1, ReadingMinutes: 1}},
		{"combining mark", "é", Metrics{Words: 1, Characters: 1, Lines: 1, ReadingMinutes: 1}},
		{"long", strings.Repeat("word ", 201), Metrics{Words: 201, Characters: 1005, Lines: 1, ReadingMinutes: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Measure(tt.text); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"[link](url)", nil},
		{"[link", []string{"Unmatched square brackets"}},
		{"(a", []string{"Unmatched parentheses"}},
		{"[a(", []string{"Unmatched square brackets", "Unmatched parentheses"}},
	}

	for _, tt := range tests {
		got := Validate(tt.text)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Validate(%q): expected %v, got %v", tt.text, tt.want, got)
		}
	}
}

func TestTemplate(t *testing.T) {
	if Template("header2") != "## " {
		t.Errorf("Expected '## ', got %q", Template("header2"))
	}
	if Template("nope") != "" {
		t.Error("Expected empty template for unknown name")
	}
	names := TemplateNames()
	if len(names) != len(templates) || names[0] != "bold" {
		t.Errorf("Unexpected template names: %v", names)
	}
}

func TestRender(t *testing.T) {
	out, err := Render("# Hello\n\nSome **bold** text", 40)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "bold") {
		t.Errorf("Expected rendered output to contain the text, got %q", out)
	}
}
