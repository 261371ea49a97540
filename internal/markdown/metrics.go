package markdown

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

const wordsPerMinute = 200

// Metrics summarizes a markdown document.
type Metrics struct {
	Words          int `json:"words"`
	Characters     int `json:"characters"`
	Lines          int `json:"lines"`
	ReadingMinutes int `json:"reading_minutes"`
}

// String formats the metrics for a status bar.
func (m Metrics) String() string {
	return fmt.Sprintf("%d words · %d chars · %d lines · %d min read", m.Words, m.Characters, m.Lines, m.ReadingMinutes)
}

// Measure computes the metrics of text. Characters are counted as user
// perceived characters (grapheme clusters).
func Measure(text string) Metrics {
	words := len(strings.Fields(text))

	lines := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}

	return Metrics{
		Words:          words,
		Characters:     uniseg.GraphemeClusterCount(text),
		Lines:          max(lines, 1),
		ReadingMinutes: (words + wordsPerMinute - 1) / wordsPerMinute,
	}
}

// Validate reports unbalanced link and image delimiters.
func Validate(text string) []string {
	var brackets, parens int
	for _, r := range text {
		switch r {
		case '[':
			brackets++
		case ']':
			brackets--
		case '(':
			parens++
		case ')':
			parens--
		}
	}

	var problems []string
	if brackets != 0 {
		problems = append(problems, "Unmatched square brackets")
	}
	if parens != 0 {
		problems = append(problems, "Unmatched parentheses")
	}
	return problems
}
