package tui

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/catalog/internal/auth"
	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/history"
	"github.com/studiowebux/catalog/internal/mock"
	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/session"
	"github.com/studiowebux/catalog/internal/types"
)

// testEnv is a model wired to a seeded mock backend
type testEnv struct {
	model     *Model
	server    *mock.Server
	session   *session.Manager
	history   *history.Manager
	clipboard []string
	connects  []string
}

// newTestEnv creates a model with its own config directory and backend
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	if err := config.InitializeAt(dir); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	hist, err := history.NewManager(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("Failed to open history: %v", err)
	}
	t.Cleanup(func() { hist.Close() })

	server := mock.NewServer(mock.DefaultConfig(), nil)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	env := &testEnv{server: server, session: mgr, history: hist}
	connect := func(p types.Profile) (*Services, error) {
		env.connects = append(env.connects, p.Name)
		backend := config.Backend{URL: ts.URL}
		authClient, err := auth.New(backend, nil)
		if err != nil {
			return nil, err
		}
		client, err := postgrest.New(backend,
			postgrest.WithRecorder(hist),
			postgrest.WithProfile(p.Name),
			postgrest.WithTokenSource(auth.NewTokenSource(authClient, mgr)),
		)
		if err != nil {
			return nil, err
		}
		return &Services{Store: catalog.New(client), Auth: authClient}, nil
	}

	m, err := New(Deps{
		Session: mgr,
		Connect: connect,
		History: hist,
		Clipboard: func(s string) error {
			env.clipboard = append(env.clipboard, s)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Failed to create model: %v", err)
	}
	t.Cleanup(m.Close)
	m.messageTimeout = time.Millisecond
	env.model = m

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	env.drain(t, m.Init())
	return env
}

// drain runs cmd and every command it leads to, feeding messages back into
// the model. Status timeouts are dropped so messages stay visible.
func (e *testEnv) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, clearStatusMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := e.model.Update(msg)
			queue = append(queue, next)
		}
	}
}

// press sends key presses one by one
func (e *testEnv) press(t *testing.T, keys ...tea.KeyMsg) {
	t.Helper()
	for _, k := range keys {
		_, cmd := e.model.Update(k)
		e.drain(t, cmd)
	}
}

// typeText types s rune by rune
func (e *testEnv) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		e.press(t, runes(string(r)))
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func alt(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true}
}

func special(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// AssertMode fails when the model is not in the expected mode
func (e *testEnv) assertMode(t *testing.T, want Mode) {
	t.Helper()
	if got := e.model.Mode(); got != want {
		t.Fatalf("Expected mode %d, got %d (error: %q)", want, got, e.model.fullErrorMsg)
	}
}
