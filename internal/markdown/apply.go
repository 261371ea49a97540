package markdown

import (
	"github.com/studiowebux/catalog/internal/textedit"
)

// Apply runs a toolbar action against the buffer and returns the result.
//
// Inline actions wrap the selection, or insert a selected placeholder when
// the selection is collapsed. Applying an inline action to text that is
// already wrapped removes the markers. Line actions prefix every line touched
// by the selection. Block actions insert a template above the current line.
func Apply(a Action, b textedit.Buffer) textedit.Buffer {
	b = b.Normalize()

	if w, ok := wraps[a]; ok {
		return applyWrap(a, w, b)
	}
	if prefix, ok := linePrefixes[a]; ok {
		return prefixLines(b, prefix)
	}
	if a == ActionCodeBlock {
		if !b.Collapsed() {
			return b.Wrap("```\n", "\n```")
		}
		return insertPlaceholder(b, "```\n", "\n```", "code")
	}
	if name, ok := blocks[a]; ok {
		return insertBlock(b, Template(name))
	}
	return b
}

func applyWrap(a Action, w wrap, b textedit.Buffer) textedit.Buffer {
	if b.Collapsed() {
		return insertPlaceholder(b, w.prefix, w.suffix, w.placeholder)
	}
	// Italic markers are a subset of bold markers; never strip half of a bold
	// unless the text is bold italic.
	if a == ActionItalic {
		if _, boldItalic := b.Unwrap("***", "***"); boldItalic {
			unwrapped, _ := b.Unwrap(w.prefix, w.suffix)
			return unwrapped
		}
		if _, bold := b.Unwrap("**", "**"); bold {
			return b.Wrap(w.prefix, w.suffix)
		}
	}
	if unwrapped, ok := b.Unwrap(w.prefix, w.suffix); ok {
		return unwrapped
	}
	return b.Wrap(w.prefix, w.suffix)
}

// insertPlaceholder inserts prefix+placeholder+suffix at the cursor and
// selects the placeholder so typing replaces it.
func insertPlaceholder(b textedit.Buffer, prefix, suffix, placeholder string) textedit.Buffer {
	inserted := b.Insert(prefix + placeholder + suffix)
	end := inserted.Start - textedit.Len(suffix)
	return inserted.Select(end-textedit.Len(placeholder), end)
}

func prefixLines(b textedit.Buffer, prefix string) textedit.Buffer {
	firstLine, _ := textedit.LineCol(b.Text, b.Start)
	lastLine, _ := textedit.LineCol(b.Text, b.End)
	// A selection ending right after a newline does not include that line.
	if lastLine > firstLine {
		if _, col := textedit.LineCol(b.Text, b.End); col == 0 {
			lastLine--
		}
	}

	n := textedit.Len(prefix)
	text := b.Text
	for line := lastLine; line >= firstLine; line-- {
		text, _ = textedit.InsertAtLineStart(text, textedit.Offset(text, line, 0), prefix)
	}
	return textedit.Buffer{
		Text:  text,
		Start: b.Start + n,
		End:   b.End + n*(lastLine-firstLine+1),
	}
}

// insertBlock places block on its own line above the line holding the cursor
// and moves the cursor to the start of that line.
func insertBlock(b textedit.Buffer, block string) textedit.Buffer {
	lineStart, _ := textedit.LineBounds(b.Text, b.Start)
	text, pos := textedit.InsertAt(b.Text, block+"\n", lineStart)
	return textedit.NewBuffer(text, pos)
}
