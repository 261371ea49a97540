// Package textedit implements pure text transformations over a plain-text
// buffer and a cursor or selection range.
//
// All offsets are Unicode code point (rune) offsets. Offsets outside
// [0, Len(text)] are clamped, and a selection whose start is after its end is
// normalized by swapping the two. None of the functions fail.
package textedit

import (
	"strings"
	"unicode/utf8"
)

// Len returns the length of text in runes.
func Len(text string) int {
	return utf8.RuneCountInString(text)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// byteOffset maps a rune offset to a byte offset. pos must already be clamped.
func byteOffset(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	i := 0
	for b := range text {
		if i == pos {
			return b
		}
		i++
	}
	return len(text)
}

// Clamp returns pos limited to the bounds of text.
func Clamp(text string, pos int) int {
	return clamp(pos, 0, Len(text))
}

// Normalize clamps a selection into text and orders it so start <= end.
func Normalize(text string, start, end int) (int, int) {
	n := Len(text)
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if start > end {
		start, end = end, start
	}
	return start, end
}

// Slice returns the runes of text in [start, end).
func Slice(text string, start, end int) string {
	start, end = Normalize(text, start, end)
	return text[byteOffset(text, start):byteOffset(text, end)]
}

// Replace substitutes the runes in [start, end) with repl and returns the new
// text together with the offset just after the inserted text.
func Replace(text string, start, end int, repl string) (string, int) {
	start, end = Normalize(text, start, end)
	bs, be := byteOffset(text, start), byteOffset(text, end)
	return text[:bs] + repl + text[be:], start + Len(repl)
}

// InsertAt splices insertion into text at pos. The returned cursor sits right
// after the inserted text.
func InsertAt(text, insertion string, pos int) (string, int) {
	pos = Clamp(text, pos)
	return Replace(text, pos, pos, insertion)
}

// WrapSelection places prefix before start and suffix after end. The returned
// range still covers the originally selected text.
//
// A collapsed selection is wrapped as-is (an empty pair of markers); choosing
// a placeholder phrase instead is the caller's policy.
func WrapSelection(text string, start, end int, prefix, suffix string) (string, int, int) {
	start, end = Normalize(text, start, end)
	bs, be := byteOffset(text, start), byteOffset(text, end)

	var sb strings.Builder
	sb.Grow(len(text) + len(prefix) + len(suffix))
	sb.WriteString(text[:bs])
	sb.WriteString(prefix)
	sb.WriteString(text[bs:be])
	sb.WriteString(suffix)
	sb.WriteString(text[be:])

	shift := Len(prefix)
	return sb.String(), start + shift, end + shift
}

// Unwrap is the inverse of WrapSelection: when the selection [start, end) is
// directly preceded by prefix and followed by suffix, both markers are removed
// and the range of the inner text is returned. ok is false when the markers
// are not present, in which case text and the normalized range are returned
// unchanged.
func Unwrap(text string, start, end int, prefix, suffix string) (string, int, int, bool) {
	start, end = Normalize(text, start, end)
	bs, be := byteOffset(text, start), byteOffset(text, end)

	if !strings.HasSuffix(text[:bs], prefix) || !strings.HasPrefix(text[be:], suffix) {
		return text, start, end, false
	}

	out := text[:bs-len(prefix)] + text[bs:be] + text[be+len(suffix):]
	shift := Len(prefix)
	return out, start - shift, end - shift, true
}

// LineBounds returns the rune offsets of the start and end of the line that
// contains pos. The end offset points at the terminating '\n' or at the end of
// the text.
func LineBounds(text string, pos int) (int, int) {
	pos = Clamp(text, pos)
	b := byteOffset(text, pos)

	lineStart := strings.LastIndexByte(text[:b], '\n') + 1
	lineEnd := len(text)
	if idx := strings.IndexByte(text[b:], '\n'); idx != -1 {
		lineEnd = b + idx
	}

	return Len(text[:lineStart]), Len(text[:lineEnd])
}

// InsertAtLineStart prepends prefix to the line containing pos. The cursor
// keeps its place relative to the surrounding text.
func InsertAtLineStart(text string, pos int, prefix string) (string, int) {
	pos = Clamp(text, pos)
	lineStart, _ := LineBounds(text, pos)
	out, _ := Replace(text, lineStart, lineStart, prefix)
	return out, pos + Len(prefix)
}

// LineCol converts pos into a 0-based line and column (both in runes).
func LineCol(text string, pos int) (int, int) {
	pos = Clamp(text, pos)
	b := byteOffset(text, pos)
	before := text[:b]
	line := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, Len(before[lineStart:])
}

// Offset converts a 0-based line and column into a rune offset. Columns past
// the end of the line land on the line end; lines past the end of the text
// land on the end of the text.
func Offset(text string, line, col int) int {
	if line < 0 {
		return 0
	}
	pos := 0
	lines := strings.Split(text, "\n")
	if line >= len(lines) {
		return Len(text)
	}
	for i := 0; i < line; i++ {
		pos += Len(lines[i]) + 1
	}
	return pos + clamp(col, 0, Len(lines[line]))
}
