package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/auth"
	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/history"
	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/realtime"
	"github.com/studiowebux/catalog/internal/session"
	"github.com/studiowebux/catalog/internal/types"
)

// Mode represents the current screen or modal
type Mode int

const (
	ModeProjects Mode = iota
	ModeAreas
	ModeProjectForm
	ModeAreaForm
	ModePicker
	ModeEditor
	ModeTemplates
	ModeConfirm
	ModeHelp
	ModeHistory
	ModeProfiles
	ModeLogin
)

// Services are the backend clients of the active profile
type Services struct {
	Store *catalog.Store
	Auth  *auth.Client
	// Realtime is nil when live updates are off
	Realtime *realtime.Client
}

// Deps is what the editor needs from the command line layer
type Deps struct {
	Session *session.Manager
	// Connect builds the clients of a profile
	Connect  func(profile types.Profile) (*Services, error)
	History  *history.Manager
	Keybinds *keybinds.Registry
	Logger   *zap.Logger
	// Clipboard receives copied text, atotto/clipboard by default
	Clipboard func(string) error
}

// confirmState is a pending yes/no question
type confirmState struct {
	prompt string
	onYes  func() tea.Cmd
	back   Mode
}

// Model represents the TUI state
type Model struct {
	deps     Deps
	services *Services
	keys     *keybinds.Registry
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mode   Mode
	screen Mode // list screen the forms return to
	width  int
	height int

	snapshot  *catalog.Snapshot
	projects  *ListState
	areas     *ListState
	templates *ListState
	profiles  *ListState

	projectForm *FormState[types.Project]
	areaForm    *FormState[types.Area]
	picker      *PickerState
	editor      *EditorState
	login       *loginState
	confirm     *confirmState

	viewer      viewport.Model
	viewerTitle string
	preview     previewCache
	history     []types.HistoryEntry

	sub       *realtime.Subscription
	subCancel context.CancelFunc
	subGen    int

	messageTimeout time.Duration

	loading      bool
	statusMsg    string
	errorMsg     string
	fullErrorMsg string
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadSnapshot(), m.subscribe())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewer.Width = max(0, msg.Width-ModalWidthMargin)
		m.viewer.Height = max(0, msg.Height-ModalHeightMargin-HeaderLines-FooterLines)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case snapshotLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.setErrorMessage(msg.err.Error())
		}
		m.setSnapshot(msg.snapshot)
		return m, nil

	case projectSavedMsg:
		return m, m.handleProjectSaved(msg)

	case areaSavedMsg:
		return m, m.handleAreaSaved(msg)

	case contentLoadedMsg:
		return m, m.handleContentLoaded(msg)

	case contentSavedMsg:
		return m, m.handleContentSaved(msg)

	case linksSyncedMsg:
		return m, m.handleLinksSynced(msg)

	case deletedMsg:
		return m, m.handleDeleted(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			return m, m.setErrorMessage(msg.err.Error())
		}
		m.history = msg.entries
		m.openViewer(ModeHistory, "History", m.renderHistoryContent())
		return m, nil

	case signedInMsg:
		return m, m.handleSignedIn(msg)

	case signedOutMsg:
		if msg.err != nil {
			return m, m.setErrorMessage(msg.err.Error())
		}
		return m, m.setStatusMessage("Signed out")

	case subscribedMsg:
		return m, m.handleSubscribed(msg)

	case changeMsg:
		return m, m.handleChange(msg)

	case subscriptionEndedMsg:
		if msg.sub != m.sub {
			return m, nil
		}
		m.sub = nil
		if msg.err != nil {
			m.logger.Warn("realtime subscription ended", zap.Error(msg.err))
			return m, m.setErrorMessage(fmt.Sprintf("Live updates stopped: %v", msg.err))
		}
		return m, nil

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeAreas:
		return m.renderAreas()
	case ModeProjectForm:
		return m.renderProjectForm()
	case ModeAreaForm:
		return m.renderAreaForm()
	case ModePicker:
		return m.renderPicker()
	case ModeEditor:
		return m.renderEditor()
	case ModeTemplates:
		return m.renderTemplates()
	case ModeConfirm:
		return m.renderConfirm()
	case ModeHelp, ModeHistory:
		return m.renderViewer()
	case ModeProfiles:
		return m.renderProfiles()
	case ModeLogin:
		return m.renderLogin()
	default:
		return m.renderProjects()
	}
}

// Mode returns the current mode
func (m *Model) Mode() Mode {
	return m.mode
}

// Close stops the live updates and cancels pending requests
func (m *Model) Close() {
	m.unsubscribe()
	if m.cancel != nil {
		m.cancel()
	}
}

// setStatusMessage shows msg in the footer and clears it after a while
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = truncate(msg, MaxFooterMessage)
	m.errorMsg = ""
	m.fullErrorMsg = ""
	return tea.Tick(m.messageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// setErrorMessage shows msg in the footer until the next action
func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	m.errorMsg = truncate(msg, MaxFooterMessage)
	m.statusMsg = ""
	m.logger.Debug("editor error", zap.String("error", msg))
	return nil
}

func (m *Model) clearMessages() {
	m.errorMsg = ""
	m.fullErrorMsg = ""
}

// askConfirm opens a yes/no modal returning to the current mode
func (m *Model) askConfirm(prompt string, onYes func() tea.Cmd) {
	m.confirm = &confirmState{prompt: prompt, onYes: onYes, back: m.mode}
	m.mode = ModeConfirm
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
