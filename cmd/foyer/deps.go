// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package main

import (
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/foyerhq/foyer/internal/authclient"
	"github.com/foyerhq/foyer/internal/config"
	"github.com/foyerhq/foyer/internal/logging"
	"github.com/foyerhq/foyer/internal/session"
)

// appEnv bundles the dependencies every subcommand needs: resolved
// configuration, a logger, the HTTP client, and the hydrated session
// store.
type appEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	client *authclient.Client
	store  *session.Store
}

// setupEnv resolves configuration from the command's flags, wires the
// client and store, and hydrates the store from the durable record so
// commands start from whatever session survived the last run.
func setupEnv(cmd *cobra.Command) (*appEnv, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger := logging.Setup("foyer", version, cfg.Log.Format,
		logging.ParseLevel(cfg.Log.Level), cmd.ErrOrStderr())
	slog.SetDefault(logger)

	client, err := authclient.New(cfg.Server.URL, authclient.Options{
		Timeout: cfg.Server.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	store := session.NewStore(session.NewFileRecordStore(afero.NewOsFs(), cfg.SessionDir()))
	if err := store.Hydrate(cmd.Context()); err != nil {
		return nil, oops.Code("STARTUP_FAILED").
			With("session_dir", cfg.SessionDir()).
			Wrap(err)
	}

	return &appEnv{cfg: cfg, logger: logger, client: client, store: store}, nil
}
