// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package xdg provides XDG Base Directory paths for Foyer.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "foyer"

// ConfigDir returns the XDG config directory for foyer.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// StateDir returns the XDG state directory for foyer.
// Checks XDG_STATE_HOME first, falls back to ~/.local/state.
func StateDir() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default path of the foyer config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SessionDir returns the directory holding the durable session record.
// The record contains an access token, so whoever writes it creates
// the directory with owner-only permissions.
func SessionDir() string {
	return filepath.Join(StateDir(), "session")
}
