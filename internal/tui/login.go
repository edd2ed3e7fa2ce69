// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foyerhq/foyer/internal/authclient"
	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/pkg/errutil"
)

const emptyFieldsError = "Username and password are required"

// loginResultMsg carries the outcome of a credential submission. The
// sequence number identifies which submission it answers so a result
// that arrives after a later submission is discarded.
type loginResultMsg struct {
	seq  int
	sess session.Session
	err  error
}

// loginModel is the credential form: two inputs, a submit action, and
// an inline error line. While a submission is in flight the form is
// locked so at most one request can be outstanding.
type loginModel struct {
	client *authclient.Client
	store  *session.Store

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
	seq        int
}

func newLoginModel(client *authclient.Client, store *session.Store) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginModel{
		client: client,
		store:  store,
		inputs: []textinput.Model{username, password},
	}
}

// reset clears the form for a fresh visit to the login view. The
// sequence number is deliberately kept so results from a previous
// visit still get discarded.
func (m *loginModel) reset() tea.Cmd {
	m.inputs[0].SetValue("")
	m.inputs[1].SetValue("")
	m.errMsg = ""
	m.submitting = false
	m.focus = 0
	m.inputs[1].Blur()
	return m.inputs[0].Focus()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			// Form is locked while a request is in flight.
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return m.cycleFocus(msg.String())
		case "enter":
			if m.focus == 0 {
				return m.cycleFocus("tab")
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) cycleFocus(key string) (loginModel, tea.Cmd) {
	if key == "shift+tab" || key == "up" {
		m.focus--
	} else {
		m.focus++
	}
	if m.focus < 0 {
		m.focus = len(m.inputs) - 1
	}
	if m.focus >= len(m.inputs) {
		m.focus = 0
	}

	cmds := make([]tea.Cmd, 0, len(m.inputs))
	for i := range m.inputs {
		if i == m.focus {
			cmds = append(cmds, m.inputs[i].Focus())
			continue
		}
		m.inputs[i].Blur()
	}
	return m, tea.Batch(cmds...)
}

// submit validates the form locally and, if it passes, fires the
// credential exchange. Validation failures never reach the network.
func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if username == "" || password == "" {
		m.errMsg = emptyFieldsError
		return m, nil
	}

	m.submitting = true
	m.errMsg = ""
	m.seq++
	seq := m.seq
	client := m.client
	store := m.store

	return m, func() tea.Msg {
		ctx := context.Background()
		sess, err := client.Login(ctx, username, password)
		if err == nil {
			err = store.Set(ctx, sess)
		}
		return loginResultMsg{seq: seq, sess: sess, err: err}
	}
}

// handleResult folds a submission outcome into the form and reports
// whether the login succeeded. Stale results are ignored entirely.
func (m loginModel) handleResult(msg loginResultMsg) (loginModel, bool) {
	if msg.seq != m.seq {
		return m, false
	}
	m.submitting = false
	if msg.err != nil {
		m.errMsg = errutil.UserMessage(msg.err, authclient.LoginFallback)
		m.inputs[1].SetValue("")
		return m, false
	}
	return m, true
}

func (m loginModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n\n")

	labels := []string{"Username", "Password"}
	for i, input := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = focusedStyle.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.submitting:
		b.WriteString(helpStyle.Render("Signing in..."))
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	default:
		b.WriteString(helpStyle.Render("enter: submit • tab: next field • ctrl+c: quit"))
	}
	return b.String()
}
