// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package main runs a small token service compatible with the Foyer
// client, intended for local development and integration tests.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/foyerhq/foyer/internal/devserver"
	"github.com/foyerhq/foyer/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
)

func main() {
	var (
		addr      = pflag.String("addr", ":8000", "listen address")
		secret    = pflag.String("secret", "dev-secret-change-me", "HMAC signing secret for access tokens")
		tokenTTL  = pflag.Duration("token-ttl", 30*time.Minute, "access token lifetime")
		logFormat = pflag.String("log.format", "text", "log format (text or json)")
		logLevel  = pflag.String("log.level", "info", "log level (debug, info, warn, error)")
	)
	pflag.Parse()

	logging.SetDefault("foyer-devserver", version, *logFormat, logging.ParseLevel(*logLevel))
	logger := slog.Default()

	srv := devserver.New([]byte(*secret), *tokenTTL, logger)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		logger.Info("stopped")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
