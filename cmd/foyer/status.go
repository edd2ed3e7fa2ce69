// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state and server reachability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}

			if user, ok := env.store.Current().User(); ok {
				cmd.Printf("Session: %s\n", user.DisplayName())
			} else {
				cmd.Println("Session: none")
			}

			cmd.Printf("Server:  %s\n", env.cfg.Server.URL)
			if err := env.client.Ping(cmd.Context()); err != nil {
				cmd.Println("Status:  unreachable")
				return err
			}
			cmd.Println("Status:  reachable")
			return nil
		},
	}
}
