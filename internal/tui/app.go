// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package tui is the interactive terminal frontend: a login form and a
// protected welcome view, with navigation resolved through the route
// guard on every transition so neither view can render for the wrong
// session state.
package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foyerhq/foyer/internal/authclient"
	"github.com/foyerhq/foyer/internal/content"
	"github.com/foyerhq/foyer/internal/routeguard"
	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/pkg/errutil"
)

// SessionChangedMsg reports a session change that happened outside the
// UI loop, delivered via Program.Send from a store subscription. The
// app re-resolves its current path against the new session.
type SessionChangedMsg struct {
	Session session.Session
}

// App is the root bubbletea model. It owns the current path and
// delegates rendering and input to the view that path resolves to.
type App struct {
	store  *session.Store
	guard  *routeguard.Guard
	logger *slog.Logger

	path    string
	login   loginModel
	welcome welcomeModel

	width  int
	height int
}

// New assembles the application model. The store should already be
// hydrated; the initial view follows from whatever session it holds.
func New(store *session.Store, guard *routeguard.Guard, client *authclient.Client, loader *content.Loader, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		store:   store,
		guard:   guard,
		logger:  logger,
		login:   newLoginModel(client, store),
		welcome: newWelcomeModel(loader, store),
	}
}

// Init aims at the protected view; the guard bounces an anonymous
// session to the login form, so the starting screen always matches the
// hydrated session.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.navigate(routeguard.ProtectedPath))
}

// navigate resolves a path through the guard and prepares the view it
// lands on. Every transition goes through here, including redirects
// after login and logout.
func (a *App) navigate(path string) tea.Cmd {
	decision := a.guard.Resolve(path, a.store.Current())
	if decision.Redirect {
		a.logger.Debug("redirecting", "from", path, "to", decision.Path)
	}
	a.path = decision.Path

	switch a.path {
	case routeguard.ProtectedPath:
		return a.welcome.open(a.store.Current())
	case routeguard.LoginPath:
		return a.login.reset()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case loginResultMsg:
		var ok bool
		a.login, ok = a.login.handleResult(msg)
		if ok {
			return a, a.navigate(routeguard.ProtectedPath)
		}
		return a, nil

	case SessionChangedMsg:
		// Re-resolve only when the change actually moves the route;
		// changes the UI itself made already navigated.
		if decision := a.guard.Resolve(a.path, a.store.Current()); decision.Path != a.path {
			return a, a.navigate(a.path)
		}
		return a, nil

	case sessionClearedMsg:
		if msg.err != nil {
			// Memory is already cleared; the stale record on disk is
			// worth a warning but must not block the logout.
			errutil.LogError(a.logger, "session teardown left a stale record", msg.err)
		}
		return a, a.navigate(routeguard.LoginPath)
	}

	switch a.path {
	case routeguard.LoginPath:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	case routeguard.ProtectedPath:
		var cmd tea.Cmd
		a.welcome, cmd = a.welcome.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) View() string {
	switch a.path {
	case routeguard.LoginPath:
		return appStyle.Render(a.login.view())
	case routeguard.ProtectedPath:
		return appStyle.Render(a.welcome.view())
	}
	return ""
}
