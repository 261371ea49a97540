package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/types"
)

// setSnapshot replaces the loaded catalog and rebuilds the lists
func (m *Model) setSnapshot(snap *catalog.Snapshot) {
	if snap == nil {
		snap = &catalog.Snapshot{}
	}
	catalog.SortProjects(snap.Projects)
	catalog.SortAreas(snap.Areas)
	m.snapshot = snap
	m.projects.SetItems(projectItems(snap))
	m.areas.SetItems(areaItems(snap.Areas))
}

func projectItems(snap *catalog.Snapshot) []ListItem {
	items := make([]ListItem, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		var detail []string
		if p.Order != nil {
			detail = append(detail, fmt.Sprintf("#%d", *p.Order))
		}
		if n := len(catalog.AreaIDs(snap.Links, p.ID)); n > 0 {
			detail = append(detail, fmt.Sprintf("%d areas", n))
		}
		items = append(items, ListItem{ID: p.ID, Label: p.Title, Detail: strings.Join(detail, " · ")})
	}
	return items
}

// areaItems lists areas grouped by category
func areaItems(areas []types.Area) []ListItem {
	groups := catalog.ByCategory(areas)
	var items []ListItem
	for _, category := range catalog.Categories(areas) {
		for _, a := range groups[category] {
			label := catalog.FormatAreaText(a)
			detail := ""
			if a.Format != nil {
				detail = string(*a.Format)
			}
			items = append(items, ListItem{ID: a.ID, Label: label, Detail: detail, Group: category})
		}
	}
	return items
}

func (m *Model) findProject(id int64) (types.Project, bool) {
	if m.snapshot == nil {
		return types.Project{}, false
	}
	for _, p := range m.snapshot.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return types.Project{}, false
}

func (m *Model) selectedProject() (types.Project, bool) {
	item, ok := m.projects.Selected()
	if !ok {
		return types.Project{}, false
	}
	return m.findProject(item.ID)
}

// handleListAction handles navigation shared by the record lists
func (m *Model) handleListAction(list *ListState, action keybinds.Action) (tea.Cmd, bool) {
	switch action {
	case keybinds.ActionNavigateUp:
		list.Navigate(-1)
	case keybinds.ActionNavigateDown:
		list.Navigate(1)
	case keybinds.ActionPageUp:
		list.Page(-PageSize)
	case keybinds.ActionPageDown:
		list.Page(PageSize)
	case keybinds.ActionGoToTop:
		list.Top()
	case keybinds.ActionGoToBottom:
		list.Bottom()
	case keybinds.ActionFilter:
		list.StartFilter()
	case keybinds.ActionRefresh:
		return m.loadSnapshot(), true
	case keybinds.ActionCopy:
		item, ok := list.Selected()
		if !ok {
			return nil, true
		}
		return m.copyText(item.Label), true
	case keybinds.ActionQuit:
		return tea.Quit, true
	case keybinds.ActionOpenHelp:
		m.openHelp()
	case keybinds.ActionOpenHistory:
		return m.loadHistory(), true
	case keybinds.ActionOpenProfiles:
		m.openProfiles()
	case keybinds.ActionOpenLogin:
		m.openLogin()
	case keybinds.ActionLogout:
		return m.signOut(), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) handleProjectsAction(action keybinds.Action) tea.Cmd {
	if cmd, ok := m.handleListAction(m.projects, action); ok {
		return cmd
	}

	switch action {
	case keybinds.ActionOpen:
		if p, ok := m.selectedProject(); ok {
			m.openProjectForm(&p)
		}
	case keybinds.ActionCreate:
		m.openProjectForm(nil)
	case keybinds.ActionDelete:
		p, ok := m.selectedProject()
		if !ok {
			return nil
		}
		m.askConfirm(fmt.Sprintf("Delete project %q?", p.Title), func() tea.Cmd {
			return m.deleteRecord(catalog.TableProjects, p.ID)
		})
	case keybinds.ActionEditContent:
		p, ok := m.selectedProject()
		if !ok {
			return nil
		}
		m.loading = true
		return m.loadContent(p)
	case keybinds.ActionOpenAreas:
		m.mode = ModeAreas
		m.screen = ModeAreas
	}
	return nil
}

// openProjectForm edits p, or a new project when p is nil
func (m *Model) openProjectForm(p *types.Project) {
	m.projectForm = NewFormState(forms.NewProjectForm(p), forms.ProjectSchema{}.Required())
	m.mode = ModeProjectForm
}

func (m *Model) handleProjectFormAction(action keybinds.Action) tea.Cmd {
	form := m.projectForm
	if form == nil {
		m.mode = m.screen
		return nil
	}

	switch action {
	case keybinds.ActionNextField:
		form.Next()
	case keybinds.ActionPrevField:
		form.Prev()
	case keybinds.ActionRevertField:
		form.Revert()
	case keybinds.ActionSave:
		return m.submitProject(form)
	case keybinds.ActionPickAreas:
		if form.Record().IsNew() {
			return m.setErrorMessage("Save the project before linking areas")
		}
		m.openPicker(form.Record().Initial().ID)
	case keybinds.ActionCancel:
		m.leaveForm(form.Record().HasChanges())
	}
	return nil
}

// submitProject validates the form and starts a save
func (m *Model) submitProject(form *FormState[types.Project]) tea.Cmd {
	if missing := form.Missing(); len(missing) > 0 {
		return m.setErrorMessage(missingMessage(missing))
	}
	if !form.Record().IsNew() && !form.Record().HasChanges() {
		return m.setStatusMessage("No changes")
	}
	return m.saveProject(form)
}

func (m *Model) handleProjectSaved(msg projectSavedMsg) tea.Cmd {
	if msg.err != nil {
		msg.form.Record().Abandon(msg.ticket)
		m.logger.Warn("project save failed", zap.Error(msg.err))
		return m.setErrorMessage(saveError("project", msg.err))
	}
	if !msg.form.Accept(msg.ticket, msg.saved) {
		// a newer save of the same form is in flight
		return nil
	}
	m.upsertProject(msg.saved)
	return m.setStatusMessage(fmt.Sprintf("Saved project %q", msg.saved.Title))
}

func (m *Model) upsertProject(p types.Project) {
	if m.snapshot == nil {
		m.snapshot = &catalog.Snapshot{}
	}
	replaced := false
	for i := range m.snapshot.Projects {
		if m.snapshot.Projects[i].ID == p.ID {
			m.snapshot.Projects[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		m.snapshot.Projects = append(m.snapshot.Projects, p)
	}
	m.setSnapshot(m.snapshot)
	m.projects.SelectID(p.ID)
}

// leaveForm returns to the list, asking first when edits would be lost
func (m *Model) leaveForm(dirty bool) {
	if !dirty {
		m.mode = m.screen
		return
	}
	screen := m.screen
	m.askConfirm("Discard unsaved changes?", func() tea.Cmd {
		m.mode = screen
		return nil
	})
}

func (m *Model) handleDeleted(msg deletedMsg) tea.Cmd {
	if msg.err != nil {
		return m.setErrorMessage(msg.err.Error())
	}
	if m.snapshot != nil {
		switch msg.table {
		case catalog.TableProjects:
			m.snapshot.Projects = removeByID(m.snapshot.Projects, msg.id, func(p types.Project) int64 { return p.ID })
			m.snapshot.Links = removeLinks(m.snapshot.Links, func(l types.AreaLink) bool { return l.ProjectID == msg.id })
		case catalog.TableAreas:
			m.snapshot.Areas = removeByID(m.snapshot.Areas, msg.id, func(a types.Area) int64 { return a.ID })
			m.snapshot.Links = removeLinks(m.snapshot.Links, func(l types.AreaLink) bool { return l.AreaID == msg.id })
		}
		m.setSnapshot(m.snapshot)
	}
	return m.setStatusMessage("Deleted")
}

func removeByID[T any](rows []T, id int64, idOf func(T) int64) []T {
	out := rows[:0]
	for _, r := range rows {
		if idOf(r) != id {
			out = append(out, r)
		}
	}
	return out
}

func removeLinks(links []types.AreaLink, drop func(types.AreaLink) bool) []types.AreaLink {
	out := links[:0]
	for _, l := range links {
		if !drop(l) {
			out = append(out, l)
		}
	}
	return out
}

func missingMessage(fields []record.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		label, ok := forms.Labels[f]
		if !ok {
			label = string(f)
		}
		names[i] = strings.ToLower(label)
	}
	return "Missing " + strings.Join(names, ", ")
}

// saveError describes a failed save, with the server detail when present
func saveError(what string, err error) string {
	var se *postgrest.StatusError
	if errors.As(err, &se) {
		if detail := se.Detail(); detail != "" {
			return fmt.Sprintf("Failed to save %s: %s", what, detail)
		}
	}
	return fmt.Sprintf("Failed to save %s: %v", what, err)
}
