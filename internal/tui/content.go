package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/textedit"
)

func (m *Model) handleContentLoaded(msg contentLoadedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to load content: %v", msg.err))
	}
	m.editor = NewEditorState(msg.project, msg.content)
	m.mode = ModeEditor
	return nil
}

func (m *Model) handleEditorAction(action keybinds.Action) tea.Cmd {
	e := m.editor
	if e == nil {
		m.mode = m.screen
		return nil
	}

	if a, ok := formatAction(action); ok {
		if !e.Preview() {
			e.Apply(a)
		}
		return nil
	}

	switch action {
	case keybinds.ActionSave:
		if !e.Record().HasChanges() {
			return m.setStatusMessage("No changes")
		}
		return m.saveContent(e)
	case keybinds.ActionCancel:
		if e.Preview() {
			e.TogglePreview()
			return nil
		}
		m.leaveForm(e.Record().HasChanges())
	case keybinds.ActionTogglePreview:
		e.TogglePreview()
	case keybinds.ActionInsertTemplate:
		if e.Preview() {
			return nil
		}
		m.templates.StopFilter(true)
		m.templates.Top()
		m.mode = ModeTemplates
	case keybinds.ActionSelectAll:
		e.SelectAll()
	case keybinds.ActionSelectLeft:
		e.Move(textedit.Left, true)
	case keybinds.ActionSelectRight:
		e.Move(textedit.Right, true)
	case keybinds.ActionSelectUp:
		e.Move(textedit.Up, true)
	case keybinds.ActionSelectDown:
		e.Move(textedit.Down, true)
	case keybinds.ActionCopy:
		return m.copyText(e.Selection())
	}
	return nil
}

func (m *Model) handleTemplatesAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionNavigateUp:
		m.templates.Navigate(-1)
	case keybinds.ActionNavigateDown:
		m.templates.Navigate(1)
	case keybinds.ActionSubmit, keybinds.ActionToggle:
		if item, ok := m.templates.Selected(); ok && m.editor != nil {
			m.editor.InsertTemplate(item.Label)
		}
		m.mode = ModeEditor
	case keybinds.ActionCancel:
		m.mode = ModeEditor
	}
	return nil
}

func (m *Model) handleContentSaved(msg contentSavedMsg) tea.Cmd {
	if msg.err != nil {
		msg.editor.Record().Abandon(msg.ticket)
		m.logger.Warn("content save failed", zap.Error(msg.err))
		return m.setErrorMessage(saveError("content", msg.err))
	}
	if !msg.editor.Accept(msg.ticket, msg.saved) {
		return nil
	}
	return m.setStatusMessage(fmt.Sprintf("Saved content of %q", msg.editor.Project().Title))
}

// copyText puts text on the clipboard
func (m *Model) copyText(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	if err := m.deps.Clipboard(text); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to copy: %v", err))
	}
	return m.setStatusMessage("Copied to clipboard")
}
