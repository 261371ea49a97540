package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/catalog/internal/auth"
	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/record"
	"github.com/studiowebux/catalog/internal/types"
)

var errNotConnected = errors.New("not connected to a backend, switch profile or check the configuration")

// Custom message types
type snapshotLoadedMsg struct {
	snapshot *catalog.Snapshot
	err      error
}

type projectSavedMsg struct {
	form   *FormState[types.Project]
	ticket record.Ticket[types.Project]
	saved  types.Project
	err    error
}

type areaSavedMsg struct {
	form   *FormState[types.Area]
	ticket record.Ticket[types.Area]
	saved  types.Area
	err    error
}

type contentLoadedMsg struct {
	project types.Project
	content *types.Content
	err     error
}

type contentSavedMsg struct {
	editor *EditorState
	ticket record.Ticket[types.Content]
	saved  types.Content
	err    error
}

type linksSyncedMsg struct {
	projectID int64
	links     []types.AreaLink
	err       error
}

type deletedMsg struct {
	table string
	id    int64
	err   error
}

type historyLoadedMsg struct {
	entries []types.HistoryEntry
	err     error
}

type signedInMsg struct {
	result *auth.Result
	err    error
}

type signedOutMsg struct {
	err error
}

type clearStatusMsg struct{}

// request runs fn with a bounded context derived from the model context
func (m *Model) request(fn func(ctx context.Context, store *catalog.Store) tea.Msg, fail func(error) tea.Msg) tea.Cmd {
	if m.services == nil {
		return func() tea.Msg { return fail(errNotConnected) }
	}
	parent, store := m.ctx, m.services.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RequestTimeout)
		defer cancel()
		return fn(ctx, store)
	}
}

// loadSnapshot fetches projects, areas and links
func (m *Model) loadSnapshot() tea.Cmd {
	m.loading = true
	return m.request(func(ctx context.Context, store *catalog.Store) tea.Msg {
		snap, err := store.LoadAll(ctx)
		return snapshotLoadedMsg{snapshot: snap, err: err}
	}, func(err error) tea.Msg {
		return snapshotLoadedMsg{err: err}
	})
}

// saveProject issues a ticket and saves the committed project
func (m *Model) saveProject(form *FormState[types.Project]) tea.Cmd {
	ticket := form.Record().BeginSave()
	return m.request(func(ctx context.Context, store *catalog.Store) tea.Msg {
		saved, err := store.Projects.Save(ctx, ticket.Record)
		return projectSavedMsg{form: form, ticket: ticket, saved: saved, err: err}
	}, func(err error) tea.Msg {
		return projectSavedMsg{form: form, ticket: ticket, err: err}
	})
}

// saveArea issues a ticket and saves the committed area
func (m *Model) saveArea(form *FormState[types.Area]) tea.Cmd {
	ticket := form.Record().BeginSave()
	return m.request(func(ctx context.Context, store *catalog.Store) tea.Msg {
		saved, err := store.Areas.Save(ctx, ticket.Record)
		return areaSavedMsg{form: form, ticket: ticket, saved: saved, err: err}
	}, func(err error) tea.Msg {
		return areaSavedMsg{form: form, ticket: ticket, err: err}
	})
}

func (m *Model) loadContent(project types.Project) tea.Cmd {
	return m.request(func(ctx context.Context, store *catalog.Store) tea.Msg {
		content, err := store.Contents.ForProject(ctx, project.ID)
		return contentLoadedMsg{project: project, content: content, err: err}
	}, func(err error) tea.Msg {
		return contentLoadedMsg{project: project, err: err}
	})
}

func (m *Model) saveContent(editor *EditorState) tea.Cmd {
	ticket := editor.Record().BeginSave()
	return m.request(func(ctx context.Context, store *catalog.Store) tea.Msg {
		saved, err := store.Contents.Save(ctx, ticket.Record)
		return contentSavedMsg{editor: editor, ticket: ticket, saved: saved, err: err}
	}, func(err error) tea.Msg {
		return contentSavedMsg{editor: editor, ticket: ticket, err: err}
	})
}

func (m *Model) syncLinks(projectID int64, areaIDs []int64) tea.Cmd {
	return m.request(func(ctx context.Context, store *catalog.Store) tea.Msg {
		links, err := store.Links.Sync(ctx, projectID, areaIDs)
		return linksSyncedMsg{projectID: projectID, links: links, err: err}
	}, func(err error) tea.Msg {
		return linksSyncedMsg{projectID: projectID, err: err}
	})
}

func (m *Model) deleteRecord(table string, id int64) tea.Cmd {
	return m.request(func(ctx context.Context, store *catalog.Store) tea.Msg {
		var err error
		switch table {
		case catalog.TableProjects:
			err = store.Projects.Delete(ctx, id)
		case catalog.TableAreas:
			err = store.Areas.Delete(ctx, id)
		default:
			err = fmt.Errorf("cannot delete from %s", table)
		}
		return deletedMsg{table: table, id: id, err: err}
	}, func(err error) tea.Msg {
		return deletedMsg{table: table, id: id, err: err}
	})
}

// loadHistory reads the write history of the active profile
func (m *Model) loadHistory() tea.Cmd {
	mgr := m.deps.History
	profile := m.deps.Session.GetActiveProfile().Name
	return func() tea.Msg {
		if mgr == nil {
			return historyLoadedMsg{err: errors.New("history is not available")}
		}
		entries, err := mgr.Load(profile, HistoryLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) signIn(email, password string) tea.Cmd {
	if m.services == nil || m.services.Auth == nil {
		return func() tea.Msg { return signedInMsg{err: errNotConnected} }
	}
	parent, client := m.ctx, m.services.Auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RequestTimeout)
		defer cancel()
		result, err := client.SignIn(ctx, email, password)
		return signedInMsg{result: result, err: err}
	}
}

// signOut revokes the session on the server and forgets it locally. The
// local session is cleared even when the server call fails.
func (m *Model) signOut() tea.Cmd {
	sess := m.deps.Session
	current := sess.Auth()
	var client *auth.Client
	if m.services != nil {
		client = m.services.Auth
	}
	parent := m.ctx
	return func() tea.Msg {
		var remoteErr error
		if current != nil && client != nil {
			ctx, cancel := context.WithTimeout(parent, RequestTimeout)
			remoteErr = client.SignOut(ctx, current.AccessToken)
			cancel()
		}
		if err := sess.ClearAuth(); err != nil {
			return signedOutMsg{err: err}
		}
		if remoteErr != nil {
			return signedOutMsg{err: fmt.Errorf("signed out locally: %w", remoteErr)}
		}
		return signedOutMsg{}
	}
}
