package textedit

import "testing"

func TestBuffer_Insert(t *testing.T) {
	b := NewBuffer("hello world", 0).Select(6, 11)
	b = b.Insert("there")
	if b.Text != "hello there" {
		t.Errorf("Expected 'hello there', got %q", b.Text)
	}
	if !b.Collapsed() || b.Start != 11 {
		t.Errorf("Expected collapsed cursor at 11, got [%d,%d)", b.Start, b.End)
	}
}

func TestBuffer_Wrap(t *testing.T) {
	b := NewBuffer("hello", 0).Select(0, 5).Wrap("**", "**")
	if b.Text != "**hello**" || b.Start != 2 || b.End != 7 {
		t.Errorf("Unexpected buffer %+v", b)
	}
	if b.Selected() != "hello" {
		t.Errorf("Expected selection 'hello', got %q", b.Selected())
	}

	unwrapped, ok := b.Unwrap("**", "**")
	if !ok {
		t.Fatal("Expected markers to be found")
	}
	if unwrapped.Text != "hello" || unwrapped.Start != 0 || unwrapped.End != 5 {
		t.Errorf("Unexpected unwrapped buffer %+v", unwrapped)
	}
}

func TestBuffer_PrefixLineKeepsSelection(t *testing.T) {
	b := NewBuffer("a\nbcd\ne", 0).Select(3, 5)
	b = b.PrefixLine("> ")
	if b.Text != "a\n> bcd\ne" {
		t.Errorf("Unexpected text %q", b.Text)
	}
	if b.Selected() != "cd" {
		t.Errorf("Expected selection 'cd', got %q", b.Selected())
	}
}

func TestBuffer_Delete(t *testing.T) {
	b := NewBuffer("héllo", 2)
	b = b.DeleteBackward()
	if b.Text != "hllo" || b.Start != 1 {
		t.Errorf("DeleteBackward: got %q at %d", b.Text, b.Start)
	}

	b = b.DeleteForward()
	if b.Text != "hlo" || b.Start != 1 {
		t.Errorf("DeleteForward: got %q at %d", b.Text, b.Start)
	}

	b = NewBuffer("", 0).DeleteBackward().DeleteForward()
	if b.Text != "" || b.Start != 0 {
		t.Errorf("Expected empty buffer to stay empty, got %+v", b)
	}

	b = NewBuffer("abcdef", 0).Select(1, 4).DeleteBackward()
	if b.Text != "aef" || b.Start != 1 {
		t.Errorf("Selection delete: got %q at %d", b.Text, b.Start)
	}
}

func TestMovement(t *testing.T) {
	text := "abc\nd\nefgh"

	if got := Up(text, 9); got != 5 {
		t.Errorf("Up from col 3 of line 2 = %d, want 5 (end of short line)", got)
	}
	if got := Down(text, 2); got != 5 {
		t.Errorf("Down from col 2 of line 0 = %d, want 5", got)
	}
	if got := Down(text, 8); got != 8 {
		t.Errorf("Down on last line = %d, want 8", got)
	}
	if got := Up(text, 1); got != 1 {
		t.Errorf("Up on first line = %d, want 1", got)
	}
	if got := Home(text, 8); got != 6 {
		t.Errorf("Home = %d, want 6", got)
	}
	if got := End(text, 0); got != 3 {
		t.Errorf("End = %d, want 3", got)
	}
	if got := Left(text, 0); got != 0 {
		t.Errorf("Left at start = %d, want 0", got)
	}
	if got := Right(text, Len(text)); got != Len(text) {
		t.Errorf("Right at end = %d, want %d", got, Len(text))
	}
}
