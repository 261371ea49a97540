package textedit

// Buffer is a text value with a selection. Start == End is a plain cursor.
type Buffer struct {
	Text  string
	Start int
	End   int
}

// NewBuffer returns a buffer with the cursor at pos.
func NewBuffer(text string, pos int) Buffer {
	pos = Clamp(text, pos)
	return Buffer{Text: text, Start: pos, End: pos}
}

// Normalize clamps and orders the selection.
func (b Buffer) Normalize() Buffer {
	b.Start, b.End = Normalize(b.Text, b.Start, b.End)
	return b
}

// Collapsed reports whether the selection is a plain cursor.
func (b Buffer) Collapsed() bool {
	b = b.Normalize()
	return b.Start == b.End
}

// Selected returns the selected text.
func (b Buffer) Selected() string {
	return Slice(b.Text, b.Start, b.End)
}

// Select returns a copy of b with the given selection.
func (b Buffer) Select(start, end int) Buffer {
	b.Start, b.End = start, end
	return b.Normalize()
}

// Insert replaces the selection with s and collapses the cursor after it.
func (b Buffer) Insert(s string) Buffer {
	text, pos := Replace(b.Text, b.Start, b.End, s)
	return Buffer{Text: text, Start: pos, End: pos}
}

// InsertAt inserts s at the selection start, ignoring the selection end.
func (b Buffer) InsertAt(s string) Buffer {
	b = b.Normalize()
	text, pos := InsertAt(b.Text, s, b.Start)
	return Buffer{Text: text, Start: pos, End: pos}
}

// Wrap surrounds the selection with prefix and suffix and keeps it selected.
func (b Buffer) Wrap(prefix, suffix string) Buffer {
	text, start, end := WrapSelection(b.Text, b.Start, b.End, prefix, suffix)
	return Buffer{Text: text, Start: start, End: end}
}

// Unwrap removes prefix and suffix around the selection when present.
func (b Buffer) Unwrap(prefix, suffix string) (Buffer, bool) {
	text, start, end, ok := Unwrap(b.Text, b.Start, b.End, prefix, suffix)
	return Buffer{Text: text, Start: start, End: end}, ok
}

// PrefixLine prepends prefix to the line holding the selection start.
func (b Buffer) PrefixLine(prefix string) Buffer {
	b = b.Normalize()
	text, pos := InsertAtLineStart(b.Text, b.Start, prefix)
	shift := pos - b.Start
	return Buffer{Text: text, Start: pos, End: b.End + shift}
}

// DeleteBackward removes the selection, or the rune before the cursor.
func (b Buffer) DeleteBackward() Buffer {
	b = b.Normalize()
	if b.Start != b.End {
		return b.Insert("")
	}
	if b.Start == 0 {
		return b
	}
	text, pos := Replace(b.Text, b.Start-1, b.Start, "")
	return Buffer{Text: text, Start: pos, End: pos}
}

// DeleteForward removes the selection, or the rune after the cursor.
func (b Buffer) DeleteForward() Buffer {
	b = b.Normalize()
	if b.Start != b.End {
		return b.Insert("")
	}
	if b.Start >= Len(b.Text) {
		return b
	}
	text, pos := Replace(b.Text, b.Start, b.Start+1, "")
	return Buffer{Text: text, Start: pos, End: pos}
}
