// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package content models the lifecycle of the protected welcome fetch
// as an explicit three-phase state machine. Callers render from the
// State value alone, so the display can never disagree with what the
// loader actually knows.
package content

import (
	"context"
	"log/slog"

	"github.com/foyerhq/foyer/internal/authclient"
	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/pkg/errutil"
)

// Phase is the lifecycle position of a content fetch.
type Phase int

const (
	// PhaseLoading means a fetch is in flight and no result has landed.
	PhaseLoading Phase = iota
	// PhaseSuccess means the last fetch completed and Content is valid.
	PhaseSuccess
	// PhaseError means the last fetch failed and Message holds a
	// user-facing description.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is what a view renders. Exactly one phase is active at a time;
// Content is meaningful only in PhaseSuccess and Message only in
// PhaseError.
type State struct {
	Phase   Phase
	Content authclient.Content
	Message string
}

// Loading is the initial state of every fetch.
func Loading() State {
	return State{Phase: PhaseLoading}
}

// Fetcher retrieves the protected content for a session. Satisfied by
// *authclient.Client.
type Fetcher interface {
	Welcome(ctx context.Context, sess session.Session) (authclient.Content, error)
}

// Loader runs fetches and folds their outcome into a State. It never
// retries on its own; a new fetch happens only when the caller asks.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewLoader creates a Loader. A nil logger defaults to slog.Default().
func NewLoader(fetcher Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fetcher: fetcher, logger: logger}
}

// Load performs one fetch and returns the terminal state. Errors are
// folded into PhaseError with the server's detail when present, or the
// generic fallback otherwise; Load itself never returns an error
// because every outcome is a renderable state.
func (l *Loader) Load(ctx context.Context, sess session.Session) State {
	result, err := l.fetcher.Welcome(ctx, sess)
	if err != nil {
		errutil.LogError(l.logger, "welcome fetch failed", err)
		return State{
			Phase:   PhaseError,
			Message: errutil.UserMessage(err, authclient.WelcomeFallback),
		}
	}
	return State{Phase: PhaseSuccess, Content: result}
}
