package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/catalog"
	"github.com/studiowebux/catalog/internal/realtime"
)

// watchedTables are the tables the editor follows
var watchedTables = []string{catalog.TableProjects, catalog.TableAreas, catalog.TableContent, catalog.TableLinks}

type subscribedMsg struct {
	gen    int
	sub    *realtime.Subscription
	cancel context.CancelFunc
	err    error
}

type changeMsg struct {
	sub    *realtime.Subscription
	change realtime.Change
}

type subscriptionEndedMsg struct {
	sub *realtime.Subscription
	err error
}

// subscribe starts live updates when the profile enables them
func (m *Model) subscribe() tea.Cmd {
	if m.services == nil || m.services.Realtime == nil {
		return nil
	}
	m.subGen++
	gen, client := m.subGen, m.services.Realtime
	ctx, cancel := context.WithCancel(m.ctx)
	return func() tea.Msg {
		sub, err := client.Subscribe(ctx, watchedTables...)
		return subscribedMsg{gen: gen, sub: sub, cancel: cancel, err: err}
	}
}

// unsubscribe stops the current subscription. Subscriptions still being
// set up are dropped when they arrive.
func (m *Model) unsubscribe() {
	m.subGen++
	if m.subCancel != nil {
		m.subCancel()
	}
	m.sub = nil
	m.subCancel = nil
}

// waitForChange blocks until the next change of sub
func waitForChange(sub *realtime.Subscription) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-sub.Changes
		if !ok {
			return subscriptionEndedMsg{sub: sub, err: sub.Err()}
		}
		return changeMsg{sub: sub, change: c}
	}
}

func (m *Model) handleSubscribed(msg subscribedMsg) tea.Cmd {
	if msg.gen != m.subGen {
		msg.cancel()
		return nil
	}
	if msg.err != nil {
		msg.cancel()
		m.logger.Warn("realtime subscription failed", zap.Error(msg.err))
		return m.setErrorMessage(fmt.Sprintf("Live updates unavailable: %v", msg.err))
	}
	m.sub = msg.sub
	m.subCancel = msg.cancel
	m.logger.Debug("subscribed to live updates")
	return waitForChange(msg.sub)
}

// handleChange reloads the catalog after a change made elsewhere. An open
// editor is never overwritten; a change to its content is only reported.
func (m *Model) handleChange(msg changeMsg) tea.Cmd {
	if msg.sub != m.sub {
		return nil
	}
	c := msg.change
	m.logger.Debug("live change", zap.String("table", c.Table), zap.String("type", c.Type), zap.Int64("id", c.ID()))

	cmds := []tea.Cmd{waitForChange(msg.sub)}
	if c.Table == catalog.TableContent {
		if m.editor != nil && m.mode == ModeEditor && changedProject(c) == m.editor.Project().ID {
			cmds = append(cmds, m.setStatusMessage("Content was changed elsewhere"))
		}
		return tea.Batch(cmds...)
	}
	cmds = append(cmds, m.loadSnapshot())
	return tea.Batch(cmds...)
}

// changedProject returns the project id of a content change
func changedProject(c realtime.Change) int64 {
	for _, row := range []map[string]any{c.Record, c.OldRecord} {
		if f, ok := row["project_id"].(float64); ok {
			return int64(f)
		}
	}
	return 0
}
