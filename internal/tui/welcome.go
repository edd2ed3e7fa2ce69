// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foyerhq/foyer/internal/content"
	"github.com/foyerhq/foyer/internal/session"
)

// contentResultMsg carries the outcome of one protected-content fetch,
// tagged with the sequence number of the fetch that produced it.
type contentResultMsg struct {
	seq   int
	state content.State
}

// sessionClearedMsg signals that teardown ran. The in-memory session
// is gone either way; err reports only a failure to erase the durable
// record.
type sessionClearedMsg struct {
	err error
}

// welcomeModel renders the protected view. Its display follows the
// content.State machine exactly: spinner while loading, the message on
// success, the error line plus a retry hint on failure.
type welcomeModel struct {
	loader *content.Loader
	store  *session.Store

	spinner spinner.Model
	state   content.State
	sess    session.Session
	seq     int
}

func newWelcomeModel(loader *content.Loader, store *session.Store) welcomeModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle
	return welcomeModel{
		loader:  loader,
		store:   store,
		spinner: sp,
		state:   content.Loading(),
	}
}

// open starts a fetch for the given session and returns the commands
// that drive it.
func (m *welcomeModel) open(sess session.Session) tea.Cmd {
	m.sess = sess
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

// fetch transitions to the loading phase and fires one request. Each
// call bumps the sequence number, which retires any result still in
// flight from an earlier call.
func (m *welcomeModel) fetch() tea.Cmd {
	m.state = content.Loading()
	m.seq++
	seq := m.seq
	sess := m.sess
	loader := m.loader

	return func() tea.Msg {
		return contentResultMsg{seq: seq, state: loader.Load(context.Background(), sess)}
	}
}

func (m welcomeModel) update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if m.state.Phase == content.PhaseError {
				return m, m.fetch()
			}
		case "ctrl+d":
			return m, m.logout()
		case "q":
			return m, tea.Quit
		}

	case contentResultMsg:
		if msg.seq != m.seq {
			// Result of a superseded fetch; the newer one owns the view.
			return m, nil
		}
		m.state = msg.state
		return m, nil

	case spinner.TickMsg:
		if m.state.Phase == content.PhaseLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// logout clears the session. Memory is cleared even when erasing the
// durable record fails, so the app always returns to the login view.
func (m welcomeModel) logout() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return sessionClearedMsg{err: store.Clear(context.Background())}
	}
}

func (m welcomeModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome"))
	b.WriteString("\n\n")

	switch m.state.Phase {
	case content.PhaseLoading:
		b.WriteString(fmt.Sprintf("%s Loading...", m.spinner.View()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("ctrl+d: log out • q: quit"))

	case content.PhaseSuccess:
		b.WriteString(messageStyle.Render(m.state.Content.Message))
		b.WriteString("\n")
		if user, ok := m.sess.User(); ok {
			b.WriteString(labelStyle.Render(fmt.Sprintf("Signed in as %s", user.DisplayName())))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("ctrl+d: log out • q: quit"))

	case content.PhaseError:
		b.WriteString(errorStyle.Render(m.state.Message))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r: retry • ctrl+d: log out • q: quit"))
	}
	return b.String()
}
