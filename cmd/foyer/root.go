// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/foyerhq/foyer/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Foyer CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foyer",
		Short: "Foyer - a terminal client for token-based sign-in",
		Long: `Foyer signs in against a token service, keeps the session across
restarts, and shows the protected welcome content either as one-shot
commands or as a full-screen terminal UI.`,
		SilenceUsage: true,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.BindFlags(cmd.PersistentFlags())

	// Add subcommands
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewWelcomeCmd())
	cmd.AddCommand(NewUICmd())

	return cmd
}
