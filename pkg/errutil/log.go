// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package errutil provides helpers for working with oops errors:
// structured logging, user-facing message extraction, and test asserts.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code, and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}

// UserMessage returns the string to display to the user for err.
// Oops errors carry the server's detail payload as their public message;
// when present it is returned verbatim. Everything else collapses to the
// caller's generic fallback so no internal error text leaks into the UI.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if public := oopsErr.Public(); public != "" {
			return public
		}
	}
	return fallback
}
