package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/textedit"
	"github.com/studiowebux/catalog/internal/types"
)

func TestModel_LoadsCatalog(t *testing.T) {
	env := newTestEnv(t)

	env.assertMode(t, ModeProjects)
	if diff := cmp.Diff([]string{"Solar Survey", "Cell Atlas"}, labels(env.model.projects.Items())); diff != "" {
		t.Errorf("Projects mismatch (-want +got):\n%s", diff)
	}
	if n := len(env.model.areas.Items()); n != 5 {
		t.Errorf("Expected 5 areas, got %d", n)
	}
	if view := env.model.View(); !strings.Contains(view, "Solar Survey") {
		t.Errorf("Expected project list in view, got:\n%s", view)
	}
}

func TestModel_CreateProject(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("n"))
	env.assertMode(t, ModeProjectForm)
	env.typeText(t, "Deep Sea")
	env.press(t, special(tea.KeyTab))
	env.typeText(t, "3")
	env.press(t, special(tea.KeyCtrlS))

	if env.model.errorMsg != "" {
		t.Fatalf("Unexpected error: %s", env.model.fullErrorMsg)
	}
	if !strings.Contains(env.model.statusMsg, "Saved project") {
		t.Errorf("Expected save status, got %q", env.model.statusMsg)
	}
	rec := env.model.projectForm.Record()
	if rec.IsNew() || rec.HasChanges() {
		t.Error("Expected form to hold the saved project")
	}
	if got := env.server.Store().Count(catalog.TableProjects); got != 3 {
		t.Errorf("Expected 3 projects on the server, got %d", got)
	}
	item, _ := env.model.projects.Selected()
	if item.Label != "Deep Sea" {
		t.Errorf("Expected new project selected, got %q", item.Label)
	}
}

func TestModel_SaveRequiresTitle(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("n"), special(tea.KeyCtrlS))

	if env.model.errorMsg != "Missing title" {
		t.Errorf("Expected 'Missing title', got %q", env.model.errorMsg)
	}
	if env.model.projectForm.Record().Pending() {
		t.Error("Expected no save in flight")
	}
}

func TestModel_EditProjectMarksDirtyField(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, special(tea.KeyEnter))
	env.assertMode(t, ModeProjectForm)
	env.typeText(t, "!")

	if diff := cmp.Diff([]string{"title"}, fieldNames(env.model.projectForm.Record().Dirty())); diff != "" {
		t.Errorf("Dirty mismatch (-want +got):\n%s", diff)
	}
	if view := env.model.View(); !strings.Contains(view, "●") {
		t.Error("Expected dirty marker in view")
	}

	env.press(t, special(tea.KeyCtrlR))
	if env.model.projectForm.Record().HasChanges() {
		t.Error("Expected revert to clean the form")
	}
}

func fieldNames[F ~string](fields []F) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

func TestModel_CancelDirtyFormAsks(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, special(tea.KeyEnter))
	env.typeText(t, "x")
	env.press(t, special(tea.KeyEsc))
	env.assertMode(t, ModeConfirm)

	env.press(t, runes("n"))
	env.assertMode(t, ModeProjectForm)

	env.press(t, special(tea.KeyEsc), runes("y"))
	env.assertMode(t, ModeProjects)
}

func TestModel_DeleteProject(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("d"))
	env.assertMode(t, ModeConfirm)
	env.press(t, runes("n"))
	if n := len(env.model.projects.Items()); n != 2 {
		t.Fatalf("Expected no delete after deny, got %d projects", n)
	}

	env.press(t, runes("d"), runes("y"))
	if diff := cmp.Diff([]string{"Cell Atlas"}, labels(env.model.projects.Items())); diff != "" {
		t.Errorf("Projects mismatch (-want +got):\n%s", diff)
	}
	if ids := catalog.AreaIDs(env.model.snapshot.Links, 1); len(ids) != 0 {
		t.Errorf("Expected links of the deleted project dropped, got %v", ids)
	}
}

func TestModel_PickAreas(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, special(tea.KeyEnter), special(tea.KeyCtrlL))
	env.assertMode(t, ModePicker)
	if diff := cmp.Diff([]int64{3, 5}, env.model.picker.Selected()); diff != "" {
		t.Fatalf("Initial selection mismatch (-want +got):\n%s", diff)
	}

	// Field is listed first: Biology (4) then Astronomy (5)
	env.press(t, runes("x"), runes("j"), runes("x"), special(tea.KeyEnter))
	env.assertMode(t, ModeProjectForm)

	if diff := cmp.Diff([]int64{3, 4}, catalog.AreaIDs(env.model.snapshot.Links, 1)); diff != "" {
		t.Errorf("Links mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_FailedLinkSyncReloads(t *testing.T) {
	env := newTestEnv(t)
	env.model.snapshot.Links = nil

	_, cmd := env.model.Update(linksSyncedMsg{projectID: 1, err: errors.New("insert rejected")})
	env.drain(t, cmd)

	if !strings.Contains(env.model.errorMsg, "Failed to link areas") {
		t.Errorf("Expected link error, got %q", env.model.errorMsg)
	}
	if diff := cmp.Diff([]int64{3, 5}, catalog.AreaIDs(env.model.snapshot.Links, 1)); diff != "" {
		t.Errorf("Expected links reloaded from the server (-want +got):\n%s", diff)
	}
}

func TestModel_PickAreasNeedsSavedProject(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("n"), special(tea.KeyCtrlL))
	env.assertMode(t, ModeProjectForm)
	if env.model.errorMsg == "" {
		t.Error("Expected an error for an unsaved project")
	}
}

func TestModel_EditContent(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("c"))
	env.assertMode(t, ModeEditor)
	if !strings.HasPrefix(env.model.editor.Text(), "# Solar Survey") {
		t.Fatalf("Expected loaded content, got %q", env.model.editor.Text())
	}

	env.press(t, special(tea.KeyEnter))
	env.typeText(t, "new")
	env.press(t, special(tea.KeyShiftLeft), special(tea.KeyShiftLeft), special(tea.KeyShiftLeft), alt("b"))
	if !strings.HasSuffix(env.model.editor.Text(), "\n**new**") {
		t.Fatalf("Expected bold line, got %q", env.model.editor.Text())
	}

	env.press(t, special(tea.KeyCtrlY))
	if len(env.clipboard) != 1 || env.clipboard[0] != "new" {
		t.Errorf("Expected selection copied, got %v", env.clipboard)
	}

	env.press(t, special(tea.KeyCtrlS))
	if env.model.editor.Record().HasChanges() {
		t.Errorf("Expected saved content, error: %q", env.model.fullErrorMsg)
	}

	content, err := env.model.services.Store.Contents.ForProject(env.model.ctx, 1)
	if err != nil {
		t.Fatalf("ForProject failed: %v", err)
	}
	if content == nil || content.Text == nil || !strings.HasSuffix(*content.Text, "**new**") {
		t.Errorf("Expected content saved on the server, got %v", content)
	}
}

func TestModel_EditorTemplatesAndPreview(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("j"), runes("c"))
	env.assertMode(t, ModeEditor)
	if env.model.editor.Text() != "" {
		t.Fatalf("Expected empty content for project 2, got %q", env.model.editor.Text())
	}

	env.press(t, special(tea.KeyCtrlT))
	env.assertMode(t, ModeTemplates)
	env.model.templates.SelectID(indexOf(t, env.model.templates, "header2"))
	env.press(t, special(tea.KeyEnter))
	env.assertMode(t, ModeEditor)
	if env.model.editor.Text() != "## " {
		t.Errorf("Expected '## ', got %q", env.model.editor.Text())
	}

	env.typeText(t, "Notes")
	env.press(t, special(tea.KeyCtrlP))
	if !env.model.editor.Preview() {
		t.Fatal("Expected preview")
	}
	if view := env.model.View(); !strings.Contains(view, "Notes") {
		t.Errorf("Expected rendered heading in preview, got:\n%s", view)
	}

	// typing is ignored while previewing
	env.typeText(t, "zz")
	if env.model.editor.Text() != "## Notes" {
		t.Errorf("Expected unchanged text, got %q", env.model.editor.Text())
	}
	env.press(t, special(tea.KeyEsc))
	if env.model.editor.Preview() {
		t.Error("Expected esc to leave the preview first")
	}
}

func indexOf(t *testing.T, list *ListState, label string) int64 {
	t.Helper()
	for _, item := range list.Items() {
		if item.Label == label {
			return item.ID
		}
	}
	t.Fatalf("No item %q", label)
	return 0
}

func TestModel_FilterProjects(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("/"))
	env.typeText(t, "cell")
	if diff := cmp.Diff([]string{"Cell Atlas"}, labels(env.model.projects.Visible())); diff != "" {
		t.Errorf("Visible mismatch (-want +got):\n%s", diff)
	}

	// n is typed into the query, not bound to create
	env.press(t, runes("n"))
	env.assertMode(t, ModeProjects)

	env.press(t, special(tea.KeyEsc))
	if n := len(env.model.projects.Visible()); n != 2 {
		t.Errorf("Expected filter cleared, got %d visible", n)
	}
}

func TestModel_AreasScreen(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("a"))
	env.assertMode(t, ModeAreas)
	item, _ := env.model.areas.Selected()
	if item.Group != "Field" {
		t.Fatalf("Expected Field first, got %q", item.Group)
	}

	env.press(t, runes("]"))
	item, _ = env.model.areas.Selected()
	if item.Group != "Scale" || item.Label != "10^-6 m" {
		t.Errorf("Expected first Scale area, got %+v", item)
	}

	env.press(t, runes("n"))
	env.assertMode(t, ModeAreaForm)
	if got := env.model.areaForm.Record().Get(forms.FieldCategory); got != "Scale" {
		t.Errorf("Expected category prefilled with 'Scale', got %q", got)
	}
	env.typeText(t, "3")
	env.press(t, special(tea.KeyCtrlS))
	if got := env.server.Store().Count(catalog.TableAreas); got != 6 {
		t.Errorf("Expected 6 areas on the server, got %d (error: %q)", got, env.model.fullErrorMsg)
	}

	env.press(t, special(tea.KeyEsc))
	env.assertMode(t, ModeAreas)
	env.press(t, special(tea.KeyEsc))
	env.assertMode(t, ModeProjects)
}

func TestModel_StaleSaveIsDropped(t *testing.T) {
	env := newTestEnv(t)
	env.press(t, special(tea.KeyEnter))

	form := env.model.projectForm
	form.Insert(" one")
	stale := form.Record().BeginSave()
	form.Insert(" two")
	latest := form.Record().BeginSave()

	env.model.Update(projectSavedMsg{form: form, ticket: stale, saved: types.Project{ID: 1, Title: "Solar Survey one"}})
	if !form.Record().Pending() {
		t.Error("Expected the newer save to stay pending")
	}
	env.model.Update(projectSavedMsg{form: form, ticket: latest, saved: types.Project{ID: 1, Title: "Solar Survey one two"}})
	if form.Record().Pending() || form.Record().HasChanges() {
		t.Error("Expected the latest save to be accepted")
	}
	p, _ := env.model.findProject(1)
	if p.Title != "Solar Survey one two" {
		t.Errorf("Expected latest title in the snapshot, got %q", p.Title)
	}
}

func TestModel_SignInAndOut(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("L"))
	env.assertMode(t, ModeLogin)
	env.typeText(t, "demo@example.com")
	env.press(t, special(tea.KeyTab))
	env.typeText(t, "demo")
	if view := env.model.View(); strings.Contains(view, "demo@example.comdemo") || !strings.Contains(view, "****") {
		t.Error("Expected masked password in view")
	}
	env.press(t, special(tea.KeyEnter))

	env.assertMode(t, ModeProjects)
	a := env.session.Auth()
	if a == nil || a.User.Email != "demo@example.com" {
		t.Fatalf("Expected stored session, got %+v", a)
	}

	env.press(t, runes("O"))
	if env.session.Auth() != nil {
		t.Error("Expected session cleared after sign out")
	}
}

func TestModel_SignInFailure(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("L"))
	env.typeText(t, "demo@example.com")
	env.press(t, special(tea.KeyTab))
	env.typeText(t, "wrong")
	env.press(t, special(tea.KeyEnter))

	env.assertMode(t, ModeLogin)
	if !strings.HasPrefix(env.model.errorMsg, "Sign in failed") {
		t.Errorf("Expected sign in error, got %q", env.model.errorMsg)
	}
}

func TestModel_HistoryShowsWrites(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("d"), runes("y"), runes("H"))
	env.assertMode(t, ModeHistory)
	if len(env.model.history) != 1 || env.model.history[0].Method != "DELETE" {
		t.Fatalf("Expected one DELETE entry, got %+v", env.model.history)
	}

	env.press(t, runes("q"))
	env.assertMode(t, ModeProjects)
}

func TestModel_HelpAndProfiles(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, runes("?"))
	env.assertMode(t, ModeHelp)
	if view := env.model.View(); !strings.Contains(view, "Keybindings") {
		t.Error("Expected help title")
	}
	env.press(t, special(tea.KeyEsc))

	if err := env.session.AddProfile(types.Profile{Name: "Staging", URL: "http://staging.local"}); err != nil {
		t.Fatalf("AddProfile failed: %v", err)
	}
	env.press(t, runes("p"))
	env.assertMode(t, ModeProfiles)
	env.press(t, runes("j"), special(tea.KeyEnter))

	if got := env.session.GetActiveProfile().Name; got != "Staging" {
		t.Errorf("Expected active profile 'Staging', got %q", got)
	}
	if diff := cmp.Diff([]string{"Default", "Staging"}, env.connects); diff != "" {
		t.Errorf("Connect calls mismatch (-want +got):\n%s", diff)
	}
	if n := len(env.model.projects.Items()); n != 2 {
		t.Errorf("Expected catalog reloaded, got %d projects", n)
	}
}

func TestRenderText_CursorAndSelection(t *testing.T) {
	b := textedit.NewBuffer("ab\ncd", 0).Select(1, 4)
	out := renderText(b, 4, 0, 10)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "a") || !strings.Contains(lines[1], "c") {
		t.Errorf("Unexpected render %q", out)
	}
}

func TestKeyString_Space(t *testing.T) {
	if got := keyString(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}); got != "space" {
		t.Errorf("Expected 'space', got %q", got)
	}
}
