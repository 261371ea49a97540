package textedit

import (
	"testing"
)

func TestInsertAt(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		insertion  string
		pos        int
		wantText   string
		wantCursor int
	}{
		{"empty buffer", "", "X", 0, "X", 1},
		{"start", "hello", ">", 0, ">hello", 1},
		{"middle", "hello", "--", 2, "he--llo", 4},
		{"end", "hello", "!", 5, "hello!", 6},
		{"past end is clamped", "hello", "!", 42, "hello!", 6},
		{"negative is clamped", "hello", "!", -3, "!hello", 1},
		{"empty insertion", "hello", "", 3, "hello", 3},
		{"multi-byte text", "héllo", "*", 2, "hé*llo", 3},
		{"multi-byte insertion", "ab", "🙂", 1, "a🙂b", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotCursor := InsertAt(tt.text, tt.insertion, tt.pos)
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if gotCursor != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", gotCursor, tt.wantCursor)
			}
		})
	}
}

func TestWrapSelection(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		start     int
		end       int
		prefix    string
		suffix    string
		wantText  string
		wantStart int
		wantEnd   int
	}{
		{"whole word", "hello", 0, 5, "**", "**", "**hello**", 2, 7},
		{"inner word", "say hello now", 4, 9, "*", "*", "say *hello* now", 5, 10},
		{"collapsed at start", "hello", 0, 0, "`", "`", "``hello", 1, 1},
		{"collapsed at end", "hello", 5, 5, "`", "`", "hello``", 6, 6},
		{"empty text", "", 0, 0, "**", "**", "****", 2, 2},
		{"reversed range is normalized", "hello", 5, 0, "~~", "~~", "~~hello~~", 2, 7},
		{"out of range is clamped", "hello", -1, 99, "[", "]", "[hello]", 1, 6},
		{"asymmetric markers", "link", 0, 4, "[", "](url)", "[link](url)", 1, 5},
		{"emoji selection", "a🙂b", 1, 2, "**", "**", "a**🙂**b", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotStart, gotEnd := WrapSelection(tt.text, tt.start, tt.end, tt.prefix, tt.suffix)
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("range = (%d, %d), want (%d, %d)", gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInsertAtLineStart(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		pos        int
		prefix     string
		wantText   string
		wantCursor int
	}{
		{"middle line", "a\nb\nc", 2, "> ", "a\n> b\nc", 4},
		{"single line at zero", "hello", 0, "# ", "# hello", 2},
		{"single line at end", "hello", 5, "- ", "- hello", 7},
		{"cursor before newline stays on its line", "a\nb", 1, "> ", "> a\nb", 3},
		{"last line", "a\nb\nc", 5, "1. ", "a\nb\n1. c", 8},
		{"empty text", "", 0, "- ", "- ", 2},
		{"trailing empty line", "a\n", 2, "> ", "a\n> ", 4},
		{"clamped cursor", "a\nb", 10, "> ", "a\n> b", 5},
		{"unicode line", "é\nü", 3, "## ", "é\n## ü", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotCursor := InsertAtLineStart(tt.text, tt.pos, tt.prefix)
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if gotCursor != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", gotCursor, tt.wantCursor)
			}
		})
	}
}

func TestWrapThenUnwrapRestoresOriginal(t *testing.T) {
	texts := []string{"", "hello", "hello world", "a\nb\nc", "héllo wörld 🙂"}
	markers := [][2]string{{"**", "**"}, {"*", "*"}, {"[", "](url)"}, {"`", "`"}}

	for _, text := range texts {
		n := Len(text)
		for start := 0; start <= n; start++ {
			for end := start; end <= n; end++ {
				for _, mk := range markers {
					wrapped, ws, we := WrapSelection(text, start, end, mk[0], mk[1])
					got, gs, ge, ok := Unwrap(wrapped, ws, we, mk[0], mk[1])
					if !ok {
						t.Fatalf("Unwrap(%q, %d, %d) did not find markers %q", wrapped, ws, we, mk)
					}
					if got != text || gs != start || ge != end {
						t.Fatalf("round trip of %q [%d,%d) with %q = %q [%d,%d)", text, start, end, mk, got, gs, ge)
					}
				}
			}
		}
	}
}

func TestUnwrapWithoutMarkers(t *testing.T) {
	text, start, end, ok := Unwrap("hello", 1, 3, "**", "**")
	if ok {
		t.Error("Expected ok=false when markers are missing")
	}
	if text != "hello" || start != 1 || end != 3 {
		t.Errorf("Expected unchanged input, got %q [%d,%d)", text, start, end)
	}
}

func TestLineBounds(t *testing.T) {
	text := "ab\ncde\n\nf"
	tests := []struct {
		pos       int
		wantStart int
		wantEnd   int
	}{
		{0, 0, 2},
		{2, 0, 2},
		{3, 3, 6},
		{6, 3, 6},
		{7, 7, 7},
		{8, 8, 9},
		{9, 8, 9},
	}
	for _, tt := range tests {
		start, end := LineBounds(text, tt.pos)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("LineBounds(%d) = (%d, %d), want (%d, %d)", tt.pos, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestLineColOffsetRoundTrip(t *testing.T) {
	text := "first\nsécond\n\nlast 🙂"
	for pos := 0; pos <= Len(text); pos++ {
		line, col := LineCol(text, pos)
		if got := Offset(text, line, col); got != pos {
			t.Errorf("Offset(LineCol(%d)) = %d (line %d col %d)", pos, got, line, col)
		}
	}
}

func TestSliceAndReplace(t *testing.T) {
	if got := Slice("héllo", 1, 4); got != "éll" {
		t.Errorf("Slice = %q, want %q", got, "éll")
	}
	text, pos := Replace("héllo", 1, 4, "EY")
	if text != "hEYo" || pos != 3 {
		t.Errorf("Replace = (%q, %d), want (%q, %d)", text, pos, "hEYo", 3)
	}
}
