// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/foyerhq/foyer/internal/content"
	"github.com/foyerhq/foyer/internal/routeguard"
	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/internal/tui"
)

// NewUICmd creates the ui subcommand.
func NewUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Run the full-screen terminal interface",
		Long: `Run the interactive terminal UI: a login form when no session is
active, the protected welcome view once signed in.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}

			guard, err := routeguard.New(routeguard.Config{
				Protected: env.cfg.Routes.Protected,
				Entry:     env.cfg.Routes.Entry,
			})
			if err != nil {
				return err
			}

			loader := content.NewLoader(env.client, env.logger)
			app := tui.New(env.store, guard, env.client, loader, env.logger)

			program := tea.NewProgram(app, tea.WithAltScreen())

			// Forward out-of-band session changes into the UI loop so
			// the route is re-resolved against the live session.
			unsubscribe := env.store.Subscribe(func(sess session.Session) {
				go program.Send(tui.SessionChangedMsg{Session: sess})
			})
			defer unsubscribe()

			if _, err := program.Run(); err != nil {
				return oops.Code("UI_FAILED").Wrap(err)
			}
			return nil
		},
	}
}
