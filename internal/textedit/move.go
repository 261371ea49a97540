package textedit

// Left returns the offset one rune before pos.
func Left(text string, pos int) int {
	return Clamp(text, pos-1)
}

// Right returns the offset one rune after pos.
func Right(text string, pos int) int {
	return Clamp(text, pos+1)
}

// Up returns the offset on the previous line at the same column, or the
// line end when the previous line is shorter. On the first line it stays.
func Up(text string, pos int) int {
	line, col := LineCol(text, pos)
	if line == 0 {
		return Clamp(text, pos)
	}
	return Offset(text, line-1, col)
}

// Down returns the offset on the next line at the same column. On the last
// line it stays.
func Down(text string, pos int) int {
	line, col := LineCol(text, pos)
	next := Offset(text, line+1, col)
	if l, _ := LineCol(text, next); l == line {
		return Clamp(text, pos)
	}
	return next
}

// Home returns the start of the line holding pos.
func Home(text string, pos int) int {
	start, _ := LineBounds(text, pos)
	return start
}

// End returns the end of the line holding pos.
func End(text string, pos int) int {
	_, end := LineBounds(text, pos)
	return end
}
