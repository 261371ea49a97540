package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/catalog/internal/keybinds"
	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/record"
)

func (m *Model) handleConfirmAction(action keybinds.Action) tea.Cmd {
	c := m.confirm
	if c == nil {
		m.mode = m.screen
		return nil
	}

	switch action {
	case keybinds.ActionConfirm:
		m.confirm = nil
		m.mode = c.back
		if c.onYes != nil {
			return c.onYes()
		}
	case keybinds.ActionDeny:
		m.confirm = nil
		m.mode = c.back
	}
	return nil
}

// openViewer shows content in the scrollable viewer
func (m *Model) openViewer(mode Mode, title, content string) {
	m.viewerTitle = title
	m.viewer.SetContent(content)
	m.viewer.GotoTop()
	m.mode = mode
}

func (m *Model) handleViewerAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionNavigateUp:
		m.viewer.ScrollUp(1)
	case keybinds.ActionNavigateDown:
		m.viewer.ScrollDown(1)
	case keybinds.ActionPageUp:
		m.viewer.PageUp()
	case keybinds.ActionPageDown:
		m.viewer.PageDown()
	case keybinds.ActionGoToTop:
		m.viewer.GotoTop()
	case keybinds.ActionGoToBottom:
		m.viewer.GotoBottom()
	case keybinds.ActionClose:
		m.mode = m.screen
	}
	return nil
}

// openHelp lists the bindings of the screen the help was opened from
func (m *Model) openHelp() {
	var b strings.Builder
	contexts := []keybinds.Context{m.keyContext(), keybinds.ContextForm, keybinds.ContextEditor}
	for i, c := range contexts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleTitle.Render(strings.ToUpper(string(c))) + "\n")
		for _, binding := range m.keys.ListBindings(c) {
			info := keybinds.GetActionInfo(binding.Action)
			fmt.Fprintf(&b, "  %-14s %s\n", binding.Key, info.Description)
		}
	}
	m.openViewer(ModeHelp, "Keybindings", b.String())
}

// renderHistoryContent formats the write history for the viewer
func (m *Model) renderHistoryContent() string {
	if len(m.history) == 0 {
		return styleSubtle.Render("No writes recorded for this profile")
	}

	var b strings.Builder
	for _, e := range m.history {
		status := styleSuccess.Render(fmt.Sprintf("%d", e.Status))
		if !postgrest.IsSuccessStatus(e.Status) {
			status = styleError.Render(fmt.Sprintf("%d", e.Status))
		}
		fmt.Fprintf(&b, "%s  %-6s %s  %s  %s\n",
			styleSubtle.Render(e.Timestamp.Local().Format("2006-01-02 15:04:05")),
			e.Method,
			e.Path,
			status,
			postgrest.FormatDuration(e.Duration),
		)
		if e.Error != "" {
			b.WriteString("    " + styleError.Render(e.Error) + "\n")
		}
	}
	return b.String()
}

func (m *Model) openProfiles() {
	active := m.deps.Session.GetActiveProfile().Name
	var items []ListItem
	for i, p := range m.deps.Session.GetProfiles() {
		items = append(items, ListItem{ID: int64(i), Label: p.Name, Detail: p.URL})
	}
	m.profiles.SetItems(items)
	for _, item := range items {
		if item.Label == active {
			m.profiles.SelectID(item.ID)
		}
	}
	m.mode = ModeProfiles
}

func (m *Model) handleProfilesAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionNavigateUp:
		m.profiles.Navigate(-1)
	case keybinds.ActionNavigateDown:
		m.profiles.Navigate(1)
	case keybinds.ActionProfileSwitch:
		item, ok := m.profiles.Selected()
		m.mode = m.screen
		if !ok {
			return nil
		}
		return m.switchProfile(item.Label)
	case keybinds.ActionClose:
		m.mode = m.screen
	}
	return nil
}

// switchProfile reconnects to the backend of another profile
func (m *Model) switchProfile(name string) tea.Cmd {
	if name == m.deps.Session.GetActiveProfile().Name {
		return nil
	}
	if err := m.deps.Session.SetActiveProfile(name); err != nil {
		return m.setErrorMessage(err.Error())
	}

	m.unsubscribe()
	m.snapshot = nil
	m.setSnapshot(nil)
	m.connect()
	if m.services == nil {
		return nil
	}
	return tea.Batch(
		m.setStatusMessage(fmt.Sprintf("Switched to profile %s", name)),
		m.loadSnapshot(),
		m.subscribe(),
	)
}

// credentials are the inputs of the sign-in form
type credentials struct {
	Email    string
	Password string
}

const (
	fieldEmail    record.Field = "email"
	fieldPassword record.Field = "password"
)

type credentialSchema struct{}

func (credentialSchema) Fields() []record.Field {
	return []record.Field{fieldEmail, fieldPassword}
}

func (credentialSchema) Value(c *credentials, f record.Field) string {
	if c == nil {
		return ""
	}
	if f == fieldEmail {
		return c.Email
	}
	return c.Password
}

func (credentialSchema) Build(_ *credentials, v record.Values) credentials {
	return credentials{Email: strings.TrimSpace(v[fieldEmail]), Password: v[fieldPassword]}
}

// loginState is the sign-in form
type loginState struct {
	form    *FormState[credentials]
	pending bool
}

func (m *Model) openLogin() {
	var prefill *credentials
	if a := m.deps.Session.Auth(); a != nil {
		prefill = &credentials{Email: a.User.Email}
	}
	rec := record.New[credentials](credentialSchema{}, prefill)
	m.login = &loginState{form: NewFormState(rec, []record.Field{fieldEmail, fieldPassword})}
	if prefill != nil {
		m.login.form.Next()
	}
	m.mode = ModeLogin
}

func (m *Model) handleLoginAction(action keybinds.Action) tea.Cmd {
	l := m.login
	if l == nil {
		m.mode = m.screen
		return nil
	}

	switch action {
	case keybinds.ActionNextField:
		l.form.Next()
	case keybinds.ActionPrevField:
		l.form.Prev()
	case keybinds.ActionSubmit:
		if l.pending {
			return nil
		}
		if missing := l.form.Missing(); len(missing) > 0 {
			return m.setErrorMessage(missingMessage(missing))
		}
		c := l.form.Record().Commit()
		l.pending = true
		return m.signIn(c.Email, c.Password)
	case keybinds.ActionCancel:
		m.login = nil
		m.mode = m.screen
	}
	return nil
}

func (m *Model) handleSignedIn(msg signedInMsg) tea.Cmd {
	if m.login != nil {
		m.login.pending = false
	}
	if msg.err != nil {
		return m.setErrorMessage(fmt.Sprintf("Sign in failed: %v", msg.err))
	}

	var err error
	if msg.result.Session != nil {
		err = m.deps.Session.SetAuth(msg.result.Session)
	} else {
		err = m.deps.Session.SetLocal(msg.result.Local)
	}
	if err != nil {
		return m.setErrorMessage(err.Error())
	}

	m.login = nil
	m.mode = m.screen
	// reads may depend on the signed in user
	return tea.Batch(
		m.setStatusMessage("Signed in as "+msg.result.User().DisplayName()),
		m.loadSnapshot(),
	)
}
