// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package session owns the client's authentication state: the Session
// value type, the Store that holds the single live Session for the
// process, and the durable record that lets a session survive process
// restarts without re-prompting for credentials.
package session
