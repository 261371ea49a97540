package tui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/textedit"
	"github.com/studiowebux/catalog/internal/types"
)

func TestFormState_TypingMarksDirty(t *testing.T) {
	p := &types.Project{ID: 1, Title: "Atlas"}
	form := NewFormState(forms.NewProjectForm(p), forms.ProjectSchema{}.Required())

	if form.Focused() != forms.FieldTitle {
		t.Fatalf("Expected title focused, got %s", form.Focused())
	}
	form.Insert("!")
	if got := form.Record().Get(forms.FieldTitle); got != "Atlas!" {
		t.Errorf("Expected 'Atlas!', got %q", got)
	}
	if !form.Record().IsDirty(forms.FieldTitle) {
		t.Error("Expected title to be dirty")
	}

	form.Backspace()
	if form.Record().IsDirty(forms.FieldTitle) {
		t.Error("Expected title clean after restoring the value")
	}
}

func TestFormState_CursorPerField(t *testing.T) {
	form := NewFormState(forms.NewProjectForm(&types.Project{Title: "ab"}), nil)

	form.Move(textedit.Home, -1)
	form.Insert("x")
	form.Next()
	form.Insert("7")
	form.Prev()
	form.Insert("y")

	if got := form.Record().Get(forms.FieldTitle); got != "xyab" {
		t.Errorf("Expected 'xyab', got %q", got)
	}
	if form.Cursor(forms.FieldTitle) != 2 {
		t.Errorf("Expected title cursor 2, got %d", form.Cursor(forms.FieldTitle))
	}
}

func TestFormState_InsertDropsNewlines(t *testing.T) {
	form := NewFormState(forms.NewProjectForm(nil), nil)
	form.Insert("a\nb\r\n")

	if got := form.Record().Get(forms.FieldTitle); got != "ab" {
		t.Errorf("Expected 'ab', got %q", got)
	}
}

func TestFormState_ChoicesCycle(t *testing.T) {
	form := NewFormState(forms.NewAreaForm(nil, "Scale"), nil)
	form.SetChoices(forms.FieldFormat, []string{"", "Exponential", "Decimal"})
	for form.Focused() != forms.FieldFormat {
		form.Next()
	}

	form.Insert("typed")
	if got := form.Record().Get(forms.FieldFormat); got != "" {
		t.Errorf("Expected typing to be ignored on a choice, got %q", got)
	}

	form.Move(textedit.Right, 1)
	if got := form.Record().Get(forms.FieldFormat); got != "Exponential" {
		t.Errorf("Expected 'Exponential', got %q", got)
	}
	form.Move(textedit.Left, -1)
	form.Move(textedit.Left, -1)
	if got := form.Record().Get(forms.FieldFormat); got != "Decimal" {
		t.Errorf("Expected wrap to 'Decimal', got %q", got)
	}
}

func TestFormState_RevertAndMissing(t *testing.T) {
	form := NewFormState(forms.NewAreaForm(nil, ""), forms.AreaSchema{}.Required())

	if diff := cmp.Diff([]record.Field{forms.FieldTitle, forms.FieldCategory}, form.Missing()); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}

	form.Insert("Biology")
	form.Revert()
	if got := form.Record().Get(forms.FieldTitle); got != "" {
		t.Errorf("Expected reverted title, got %q", got)
	}
	if form.Cursor(forms.FieldTitle) != 0 {
		t.Errorf("Expected cursor 0 after revert, got %d", form.Cursor(forms.FieldTitle))
	}
}

func TestFormState_AcceptLatestOnly(t *testing.T) {
	form := NewFormState(forms.NewProjectForm(nil), nil)
	form.Insert("First")
	first := form.Record().BeginSave()
	form.Insert(" edit")
	second := form.Record().BeginSave()

	if form.Accept(first, types.Project{ID: 9, Title: "First"}) {
		t.Error("Expected stale ticket to be rejected")
	}
	if !form.Accept(second, types.Project{ID: 9, Title: "First edit"}) {
		t.Fatal("Expected latest ticket to be accepted")
	}
	if form.Record().IsNew() || form.Record().HasChanges() {
		t.Error("Expected a clean saved record")
	}
	if form.Cursor(forms.FieldTitle) != textedit.Len("First edit") {
		t.Errorf("Expected cursor at end, got %d", form.Cursor(forms.FieldTitle))
	}
}
