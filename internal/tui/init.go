package tui

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/markdown"
)

// New creates the editor model and connects the active profile. A failed
// connection is shown in the footer so the profile can still be switched.
func New(deps Deps) (*Model, error) {
	if deps.Session == nil {
		return nil, errors.New("session manager is required")
	}
	if deps.Connect == nil {
		return nil, errors.New("connect function is required")
	}
	if deps.Keybinds == nil {
		deps.Keybinds = keybinds.NewDefaultRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		deps:      deps,
		keys:      deps.Keybinds,
		logger:    deps.Logger,
		ctx:       ctx,
		cancel:    cancel,
		mode:      ModeProjects,
		screen:    ModeProjects,
		projects:  NewListState(),
		areas:     NewListState(),
		templates: NewListState(),
		profiles:  NewListState(),
		viewer:    viewport.New(80, 20),

		messageTimeout: MessageTimeout,
	}

	var items []ListItem
	for i, name := range markdown.TemplateNames() {
		items = append(items, ListItem{ID: int64(i), Label: name})
	}
	m.templates.SetItems(items)

	m.connect()
	return m, nil
}

// connect builds the services of the active profile
func (m *Model) connect() {
	profile := m.deps.Session.GetActiveProfile()
	services, err := m.deps.Connect(*profile)
	if err != nil {
		m.services = nil
		m.setErrorMessage(err.Error())
		return
	}
	m.services = services
	m.logger.Debug("connected", zap.String("profile", profile.Name))
}

// Run starts the TUI
func Run(deps Deps) error {
	m, err := New(deps)
	if err != nil {
		return err
	}
	defer m.Close()

	// Update uses a pointer receiver
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
