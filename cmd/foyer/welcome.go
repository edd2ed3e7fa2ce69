// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/foyerhq/foyer/internal/content"
)

// NewWelcomeCmd creates the welcome subcommand.
func NewWelcomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "welcome",
		Short: "Fetch and print the protected welcome content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			if !env.store.Current().IsAuthenticated() {
				return errors.New(`not logged in; run "foyer login" first`)
			}

			loader := content.NewLoader(env.client, env.logger)
			state := loader.Load(cmd.Context(), env.store.Current())
			if state.Phase == content.PhaseError {
				return errors.New(state.Message)
			}

			cmd.Println(state.Content.Message)
			return nil
		},
	}
}
