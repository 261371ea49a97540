package tui

import (
	"sync"

	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/textedit"
)

// FormState binds a record to single line inputs. Every field keeps its own
// rune cursor. Choice fields cycle through fixed values instead of taking
// typed text.
type FormState[T any] struct {
	mu sync.RWMutex

	rec      *record.Record[T]
	required []record.Field
	choices  map[record.Field][]string
	cursors  map[record.Field]int
	focus    int
}

// NewFormState creates a form over rec with the cursor at the end of every
// field
func NewFormState[T any](rec *record.Record[T], required []record.Field) *FormState[T] {
	s := &FormState[T]{
		rec:      rec,
		required: required,
		choices:  make(map[record.Field][]string),
		cursors:  make(map[record.Field]int),
	}
	s.resetCursors()
	return s
}

func (s *FormState[T]) resetCursors() {
	for _, f := range s.rec.Fields() {
		s.cursors[f] = textedit.Len(s.rec.Get(f))
	}
}

// SetChoices makes f a choice field
func (s *FormState[T]) SetChoices(f record.Field, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.choices[f] = values
}

// Choices returns the values of a choice field, or nil
func (s *FormState[T]) Choices(f record.Field) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.choices[f]
}

// Record returns the underlying record state
func (s *FormState[T]) Record() *record.Record[T] {
	return s.rec
}

// Focused returns the focused field
func (s *FormState[T]) Focused() record.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Fields()[s.focus]
}

// Cursor returns the rune cursor of a field
func (s *FormState[T]) Cursor(f record.Field) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursors[f]
}

// Next focuses the next field, wrapping around
func (s *FormState[T]) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = (s.focus + 1) % len(s.rec.Fields())
}

// Prev focuses the previous field, wrapping around
func (s *FormState[T]) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.rec.Fields())
	s.focus = (s.focus - 1 + n) % n
}

// edit applies fn to the focused field as a collapsed buffer
func (s *FormState[T]) edit(fn func(textedit.Buffer) textedit.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.rec.Fields()[s.focus]
	if s.choices[f] != nil {
		return
	}
	b := fn(textedit.NewBuffer(s.rec.Get(f), s.cursors[f]))
	s.cursors[f] = b.End
	s.rec.Set(f, b.Text)
}

// Insert types text into the focused field. Newlines are dropped.
func (s *FormState[T]) Insert(text string) {
	text = singleLine(text)
	if text == "" {
		return
	}
	s.edit(func(b textedit.Buffer) textedit.Buffer { return b.Insert(text) })
}

// Backspace deletes the rune before the cursor
func (s *FormState[T]) Backspace() {
	s.edit(textedit.Buffer.DeleteBackward)
}

// Delete deletes the rune after the cursor
func (s *FormState[T]) Delete() {
	s.edit(textedit.Buffer.DeleteForward)
}

// ClearField empties the focused field
func (s *FormState[T]) ClearField() {
	s.edit(func(textedit.Buffer) textedit.Buffer { return textedit.Buffer{} })
}

// Move moves the cursor of the focused field. A choice field cycles its
// value instead.
func (s *FormState[T]) Move(move func(string, int) int, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.rec.Fields()[s.focus]
	if values := s.choices[f]; values != nil {
		s.rec.Set(f, cycle(values, s.rec.Get(f), delta))
		return
	}
	s.cursors[f] = move(s.rec.Get(f), s.cursors[f])
}

// Revert restores the focused field to its snapshot value
func (s *FormState[T]) Revert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.rec.Fields()[s.focus]
	s.rec.Revert(f)
	s.cursors[f] = textedit.Len(s.rec.Get(f))
}

// Accept feeds a saved record back and keeps cursors in range of the new
// values
func (s *FormState[T]) Accept(t record.Ticket[T], saved T) bool {
	if !s.rec.Accept(t, saved) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.rec.Fields() {
		s.cursors[f] = textedit.Clamp(s.rec.Get(f), s.cursors[f])
	}
	return true
}

// Missing returns the required fields that are blank
func (s *FormState[T]) Missing() []record.Field {
	return forms.Missing(s.rec.Values(), s.required...)
}

// cycle returns the value delta steps away from current in values
func cycle(values []string, current string, delta int) string {
	if len(values) == 0 {
		return current
	}
	i := 0
	for j, v := range values {
		if v == current {
			i = j
			break
		}
	}
	n := len(values)
	return values[((i+delta)%n+n)%n]
}

func singleLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
