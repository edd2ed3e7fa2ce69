// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout subcommand.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the current session",
		Long: `Clear the in-memory session and erase the persisted record.
Running logout without an active session is not an error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}

			wasAuthenticated := env.store.Current().IsAuthenticated()
			if err := env.store.Clear(cmd.Context()); err != nil {
				return err
			}

			if wasAuthenticated {
				cmd.Println("Logged out.")
			} else {
				cmd.Println("No active session.")
			}
			return nil
		},
	}
}
