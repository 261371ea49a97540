package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/types"
)

func (m *Model) findArea(id int64) (types.Area, bool) {
	if m.snapshot == nil {
		return types.Area{}, false
	}
	for _, a := range m.snapshot.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return types.Area{}, false
}

func (m *Model) handleAreasAction(action keybinds.Action) tea.Cmd {
	if cmd, ok := m.handleListAction(m.areas, action); ok {
		return cmd
	}

	switch action {
	case keybinds.ActionOpen:
		item, ok := m.areas.Selected()
		if !ok {
			return nil
		}
		if a, ok := m.findArea(item.ID); ok {
			m.openAreaForm(&a, a.Category)
		}
	case keybinds.ActionCreate:
		// a new area starts in the category under the cursor
		item, _ := m.areas.Selected()
		m.openAreaForm(nil, item.Group)
	case keybinds.ActionDelete:
		item, ok := m.areas.Selected()
		if !ok {
			return nil
		}
		m.askConfirm(fmt.Sprintf("Delete area %q?", item.Label), func() tea.Cmd {
			return m.deleteRecord(catalog.TableAreas, item.ID)
		})
	case keybinds.ActionNextCategory:
		m.areas.NextGroup()
	case keybinds.ActionOpenProjects:
		m.mode = ModeProjects
		m.screen = ModeProjects
	}
	return nil
}

// openAreaForm edits a, or a new area in category when a is nil
func (m *Model) openAreaForm(a *types.Area, category string) {
	form := NewFormState(forms.NewAreaForm(a, category), forms.AreaSchema{}.Required())
	choices := []string{""}
	for _, f := range types.FormatTypes {
		choices = append(choices, string(f))
	}
	form.SetChoices(forms.FieldFormat, choices)
	m.areaForm = form
	m.mode = ModeAreaForm
}

func (m *Model) handleAreaFormAction(action keybinds.Action) tea.Cmd {
	form := m.areaForm
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
		if missing := form.Missing(); len(missing) > 0 {
			return m.setErrorMessage(missingMessage(missing))
		}
		if !form.Record().IsNew() && !form.Record().HasChanges() {
			return m.setStatusMessage("No changes")
		}
		return m.saveArea(form)
	case keybinds.ActionCancel:
		m.leaveForm(form.Record().HasChanges())
	}
	return nil
}

func (m *Model) handleAreaSaved(msg areaSavedMsg) tea.Cmd {
	if msg.err != nil {
		msg.form.Record().Abandon(msg.ticket)
		m.logger.Warn("area save failed", zap.Error(msg.err))
		return m.setErrorMessage(saveError("area", msg.err))
	}
	if !msg.form.Accept(msg.ticket, msg.saved) {
		return nil
	}
	m.upsertArea(msg.saved)
	return m.setStatusMessage(fmt.Sprintf("Saved area %q", msg.saved.Title))
}

func (m *Model) upsertArea(a types.Area) {
	if m.snapshot == nil {
		m.snapshot = &catalog.Snapshot{}
	}
	replaced := false
	for i := range m.snapshot.Areas {
		if m.snapshot.Areas[i].ID == a.ID {
			m.snapshot.Areas[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		m.snapshot.Areas = append(m.snapshot.Areas, a)
	}
	m.setSnapshot(m.snapshot)
	m.areas.SelectID(a.ID)
}

// openPicker lists every area with the links of the project checked
func (m *Model) openPicker(projectID int64) {
	var (
		areas []types.Area
		links []types.AreaLink
	)
	if m.snapshot != nil {
		areas, links = m.snapshot.Areas, m.snapshot.Links
	}
	m.picker = NewPickerState(projectID, areaItems(areas), catalog.AreaIDs(links, projectID))
	m.mode = ModePicker
}

func (m *Model) handlePickerAction(action keybinds.Action) tea.Cmd {
	p := m.picker
	if p == nil {
		m.mode = ModeProjectForm
		return nil
	}

	switch action {
	case keybinds.ActionNavigateUp:
		p.List().Navigate(-1)
	case keybinds.ActionNavigateDown:
		p.List().Navigate(1)
	case keybinds.ActionToggle:
		p.Toggle()
	case keybinds.ActionSubmit:
		m.mode = ModeProjectForm
		if !p.Changed() {
			return nil
		}
		return m.syncLinks(p.ProjectID(), p.Selected())
	case keybinds.ActionCancel:
		m.mode = ModeProjectForm
	}
	return nil
}

func (m *Model) handleLinksSynced(msg linksSyncedMsg) tea.Cmd {
	if msg.err != nil {
		// The server may hold part of the new links; reload them
		m.logger.Warn("link sync failed", zap.Int64("project", msg.projectID), zap.Int("inserted", len(msg.links)), zap.Error(msg.err))
		return tea.Batch(
			m.setErrorMessage(fmt.Sprintf("Failed to link areas: %v", msg.err)),
			m.loadSnapshot(),
		)
	}
	if m.snapshot == nil {
		m.snapshot = &catalog.Snapshot{}
	}
	m.snapshot.Links = append(
		removeLinks(m.snapshot.Links, func(l types.AreaLink) bool { return l.ProjectID == msg.projectID }),
		msg.links...,
	)
	m.setSnapshot(m.snapshot)
	return m.setStatusMessage(fmt.Sprintf("Linked %d areas", len(msg.links)))
}
