package tui

import (
	"sync"

	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/markdown"
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/textedit"
	"github.com/studiowebux/catalog/internal/types"
)

// EditorState holds the markdown editor of one project. The text lives in
// the content record so dirty tracking and saving work as in the forms.
type EditorState struct {
	mu sync.RWMutex

	project types.Project
	rec     *record.Record[types.Content]
	anchor  int
	cursor  int
	preview bool
	scroll  int
	offset  int // first preview line
}

// NewEditorState opens the editor for a project. content is nil when the
// project has no content yet.
func NewEditorState(project types.Project, content *types.Content) *EditorState {
	rec := forms.NewContentForm(project.ID, content)
	end := textedit.Len(rec.Get(forms.FieldText))
	return &EditorState{project: project, rec: rec, anchor: end, cursor: end}
}

// Project returns the project being edited
func (s *EditorState) Project() types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

// Record returns the content record
func (s *EditorState) Record() *record.Record[types.Content] {
	return s.rec
}

// Text returns the live text
func (s *EditorState) Text() string {
	return s.rec.Get(forms.FieldText)
}

// Buffer returns the text with the normalized selection
func (s *EditorState) Buffer() textedit.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return textedit.NewBuffer(s.Text(), s.anchor).Select(s.anchor, s.cursor)
}

// Cursor returns the caret position
func (s *EditorState) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// edit applies fn to the buffer and stores the result. The caret lands on
// the end of the resulting selection.
func (s *EditorState) edit(fn func(textedit.Buffer) textedit.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := fn(textedit.NewBuffer(s.Text(), s.anchor).Select(s.anchor, s.cursor))
	s.rec.Set(forms.FieldText, b.Text)
	s.anchor, s.cursor = b.Start, b.End
}

// Insert replaces the selection with text
func (s *EditorState) Insert(text string) {
	s.edit(func(b textedit.Buffer) textedit.Buffer { return b.Insert(text) })
}

// Backspace deletes the selection or the rune before the caret
func (s *EditorState) Backspace() {
	s.edit(textedit.Buffer.DeleteBackward)
}

// Delete deletes the selection or the rune after the caret
func (s *EditorState) Delete() {
	s.edit(textedit.Buffer.DeleteForward)
}

// Apply runs a toolbar action on the selection
func (s *EditorState) Apply(a markdown.Action) {
	s.edit(func(b textedit.Buffer) textedit.Buffer { return markdown.Apply(a, b) })
}

// InsertTemplate inserts a named snippet at the caret
func (s *EditorState) InsertTemplate(name string) {
	snippet := markdown.Template(name)
	if snippet == "" {
		return
	}
	s.Insert(snippet)
}

// Move moves the caret. With extend the anchor stays put and the selection
// grows, otherwise the selection collapses.
func (s *EditorState) Move(move func(string, int) int, extend bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor = move(s.Text(), s.cursor)
	if !extend {
		s.anchor = s.cursor
	}
}

// SelectAll selects the whole text
func (s *EditorState) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchor = 0
	s.cursor = textedit.Len(s.Text())
}

// Selection returns the selected text, or the whole text when nothing is
// selected
func (s *EditorState) Selection() string {
	b := s.Buffer()
	if b.Collapsed() {
		return b.Text
	}
	return b.Selected()
}

// TogglePreview switches between the editor and the rendered preview
func (s *EditorState) TogglePreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = !s.preview
	s.offset = 0
}

// ScrollPreview moves the preview by delta lines
func (s *EditorState) ScrollPreview(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = max(0, s.offset+delta)
}

// PreviewOffset returns the first preview line, clamped to lines
func (s *EditorState) PreviewOffset(lines, height int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = max(0, min(s.offset, lines-height))
	return s.offset
}

// Preview reports whether the rendered preview is shown
func (s *EditorState) Preview() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// Scroll returns the first line to render so the caret line fits in height
// lines
func (s *EditorState) Scroll(height int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, _ := textedit.LineCol(s.Text(), s.cursor)
	if line < s.scroll {
		s.scroll = line
	}
	if height > 0 && line >= s.scroll+height {
		s.scroll = line - height + 1
	}
	return s.scroll
}

// Metrics measures the live text
func (s *EditorState) Metrics() markdown.Metrics {
	return markdown.Measure(s.Text())
}

// Warnings lists problems found in the live text
func (s *EditorState) Warnings() []string {
	return markdown.Validate(s.Text())
}

// Accept feeds a saved content row back. The caret is kept in range of the
// saved text.
func (s *EditorState) Accept(t record.Ticket[types.Content], saved types.Content) bool {
	if !s.rec.Accept(t, saved) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.Text()
	s.anchor = textedit.Clamp(text, s.anchor)
	s.cursor = textedit.Clamp(text, s.cursor)
	return true
}
