package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/markdown"
	"github.com/studiowebux/catalog/internal/textedit"
)

// keyString returns the registry name of a key press
func keyString(msg tea.KeyMsg) string {
	s := msg.String()
	if s == " " {
		return "space"
	}
	return s
}

// keyContext returns the keybinding context of the current mode
func (m *Model) keyContext() keybinds.Context {
	switch m.mode {
	case ModeProjects:
		if m.projects.Filtering() {
			return keybinds.ContextFilter
		}
		return keybinds.ContextProjects
	case ModeAreas:
		if m.areas.Filtering() {
			return keybinds.ContextFilter
		}
		return keybinds.ContextAreas
	case ModeProjectForm, ModeAreaForm:
		return keybinds.ContextForm
	case ModePicker, ModeTemplates:
		return keybinds.ContextPicker
	case ModeEditor:
		return keybinds.ContextEditor
	case ModeConfirm:
		return keybinds.ContextConfirm
	case ModeProfiles:
		return keybinds.ContextProfiles
	case ModeLogin:
		return keybinds.ContextLogin
	default:
		return keybinds.ContextViewer
	}
}

// takesText reports whether unbound keys are typed into an input
func takesText(c keybinds.Context) bool {
	switch c {
	case keybinds.ContextFilter, keybinds.ContextForm, keybinds.ContextEditor, keybinds.ContextLogin:
		return true
	}
	return false
}

// handleKeyPress routes a key press to the handler of the current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	c := m.keyContext()

	if msg.Paste {
		if takesText(c) {
			return m.handleText(msg, string(msg.Runes))
		}
		return nil
	}

	key := keyString(msg)
	var (
		action keybinds.Action
		ok     bool
	)
	if takesText(c) {
		// sequences would swallow typed letters
		action, ok = m.keys.Match(c, key)
	} else {
		var partial bool
		action, ok, partial = m.keys.MatchMultiKey(c, key)
		if partial {
			return nil
		}
	}

	if ok {
		if action == keybinds.ActionQuitForce {
			return tea.Quit
		}
		if action == keybinds.ActionNoOp {
			return nil
		}
		m.clearMessages()
		return m.handleAction(action)
	}

	if takesText(c) {
		return m.handleText(msg, key)
	}
	return nil
}

// handleAction dispatches a bound action to the current mode
func (m *Model) handleAction(action keybinds.Action) tea.Cmd {
	switch m.mode {
	case ModeProjects:
		if m.projects.Filtering() {
			return m.handleFilterAction(m.projects, action)
		}
		return m.handleProjectsAction(action)
	case ModeAreas:
		if m.areas.Filtering() {
			return m.handleFilterAction(m.areas, action)
		}
		return m.handleAreasAction(action)
	case ModeProjectForm:
		return m.handleProjectFormAction(action)
	case ModeAreaForm:
		return m.handleAreaFormAction(action)
	case ModePicker:
		return m.handlePickerAction(action)
	case ModeEditor:
		return m.handleEditorAction(action)
	case ModeTemplates:
		return m.handleTemplatesAction(action)
	case ModeConfirm:
		return m.handleConfirmAction(action)
	case ModeProfiles:
		return m.handleProfilesAction(action)
	case ModeLogin:
		return m.handleLoginAction(action)
	case ModeHelp, ModeHistory:
		return m.handleViewerAction(action)
	}
	return nil
}

// handleText types into the input of the current mode. key is the key name
// or, for a paste, the pasted text.
func (m *Model) handleText(msg tea.KeyMsg, key string) tea.Cmd {
	switch m.mode {
	case ModeProjects:
		editQuery(m.projects, msg, key)
	case ModeAreas:
		editQuery(m.areas, msg, key)
	case ModeProjectForm:
		editForm(m.projectForm, msg, key)
	case ModeAreaForm:
		editForm(m.areaForm, msg, key)
	case ModeLogin:
		if m.login != nil {
			editForm(m.login.form, msg, key)
		}
	case ModeEditor:
		m.editText(msg, key)
	}
	return nil
}

// typed returns the text a key press inserts, if any
func typed(msg tea.KeyMsg, key string) (string, bool) {
	switch {
	case key == "space":
		return " ", true
	case msg.Type == tea.KeyRunes && !msg.Alt:
		return string(msg.Runes), true
	}
	return "", false
}

// handleFilterAction applies or cancels the fuzzy filter of a list
func (m *Model) handleFilterAction(list *ListState, action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionSubmit:
		list.StopFilter(false)
	case keybinds.ActionCancel:
		list.StopFilter(true)
	}
	return nil
}

func editQuery(list *ListState, msg tea.KeyMsg, key string) {
	if msg.Paste {
		text := singleLine(key)
		list.EditQuery(func(b textedit.Buffer) textedit.Buffer { return b.Insert(text) })
		return
	}
	switch key {
	case "backspace":
		list.EditQuery(textedit.Buffer.DeleteBackward)
	case "delete":
		list.EditQuery(textedit.Buffer.DeleteForward)
	case "left":
		list.EditQuery(func(b textedit.Buffer) textedit.Buffer {
			return textedit.NewBuffer(b.Text, textedit.Left(b.Text, b.End))
		})
	case "right":
		list.EditQuery(func(b textedit.Buffer) textedit.Buffer {
			return textedit.NewBuffer(b.Text, textedit.Right(b.Text, b.End))
		})
	case "up":
		list.Navigate(-1)
	case "down":
		list.Navigate(1)
	default:
		if text, ok := typed(msg, key); ok {
			text = singleLine(text)
			list.EditQuery(func(b textedit.Buffer) textedit.Buffer { return b.Insert(text) })
		}
	}
}

func editForm[T any](form *FormState[T], msg tea.KeyMsg, key string) {
	if form == nil {
		return
	}
	if msg.Paste {
		form.Insert(key)
		return
	}
	switch key {
	case "backspace":
		form.Backspace()
	case "delete":
		form.Delete()
	case "ctrl+u":
		form.ClearField()
	case "left":
		form.Move(textedit.Left, -1)
	case "right":
		form.Move(textedit.Right, 1)
	case "home":
		form.Move(textedit.Home, -1)
	case "end":
		form.Move(textedit.End, 1)
	default:
		if text, ok := typed(msg, key); ok {
			form.Insert(text)
		}
	}
}

func (m *Model) editText(msg tea.KeyMsg, key string) {
	e := m.editor
	if e == nil {
		return
	}
	if e.Preview() {
		switch key {
		case "up", "k":
			e.ScrollPreview(-1)
		case "down", "j":
			e.ScrollPreview(1)
		case "pgup":
			e.ScrollPreview(-PageSize)
		case "pgdown":
			e.ScrollPreview(PageSize)
		}
		return
	}
	if msg.Paste {
		e.Insert(key)
		return
	}
	switch key {
	case "enter":
		e.Insert("\n")
	case "tab":
		e.Insert("\t")
	case "backspace":
		e.Backspace()
	case "delete":
		e.Delete()
	case "left":
		e.Move(textedit.Left, false)
	case "right":
		e.Move(textedit.Right, false)
	case "up":
		e.Move(textedit.Up, false)
	case "down":
		e.Move(textedit.Down, false)
	case "home":
		e.Move(textedit.Home, false)
	case "end":
		e.Move(textedit.End, false)
	default:
		if text, ok := typed(msg, key); ok {
			e.Insert(text)
		}
	}
}

// formatAction returns the toolbar action bound to a format action
func formatAction(action keybinds.Action) (markdown.Action, bool) {
	name, ok := keybinds.FormatName(action)
	if !ok {
		return 0, false
	}
	a, err := markdown.ParseAction(name)
	if err != nil {
		return 0, false
	}
	return a, true
}
