// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package routeguard decides which view a navigation lands on given
// the current session. It is a pure projection: no state of its own,
// re-evaluated by callers on every navigation and session change.
package routeguard

import (
	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/foyerhq/foyer/internal/session"
)

// Well-known paths used as redirect targets.
const (
	LoginPath     = "/login"
	ProtectedPath = "/welcome"
)

// Default route patterns: which paths require authentication and which
// are entry points that an authenticated user should skip past.
var (
	DefaultProtected = []string{"/welcome"}
	DefaultEntry     = []string{"/", "/login"}
)

// Config declares the route patterns as globs.
type Config struct {
	// Protected paths require an authenticated session.
	Protected []string
	// Entry paths (login form, root) redirect authenticated users to
	// the protected view.
	Entry []string
}

// Decision is the outcome of resolving a navigation: the path whose
// view should render, and whether getting there was a redirect.
type Decision struct {
	Path     string
	Redirect bool
}

// Guard resolves navigations against compiled route patterns.
type Guard struct {
	protected []glob.Glob
	entry     []glob.Glob
}

// New compiles a Guard from the given patterns. Empty pattern lists
// fall back to the defaults.
func New(cfg Config) (*Guard, error) {
	protected := cfg.Protected
	if len(protected) == 0 {
		protected = DefaultProtected
	}
	entry := cfg.Entry
	if len(entry) == 0 {
		entry = DefaultEntry
	}

	g := &Guard{}
	var err error
	if g.protected, err = compile(protected); err != nil {
		return nil, err
	}
	if g.entry, err = compile(entry); err != nil {
		return nil, err
	}
	return g, nil
}

// Resolve maps a requested path and the current session to the view
// that should render. Deterministic with no side effects:
//   - protected path + anonymous session redirects to login,
//   - entry path + authenticated session redirects to the protected view,
//   - anything else renders as requested.
func (g *Guard) Resolve(path string, sess session.Session) Decision {
	authenticated := sess.IsAuthenticated()

	if matches(g.protected, path) && !authenticated {
		return Decision{Path: LoginPath, Redirect: true}
	}
	if matches(g.entry, path) && authenticated {
		return Decision{Path: ProtectedPath, Redirect: true}
	}
	return Decision{Path: path}
}

func compile(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, oops.Code("ROUTE_PATTERN_INVALID").
				With("pattern", pattern).
				Wrap(err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matches(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
