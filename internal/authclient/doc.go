// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package authclient implements the HTTP side of the authentication
// flow: credential submission against POST /token, the protected
// welcome fetch, and a reachability probe. Every failure is normalized
// to an oops error whose code identifies the failure class
// (network / rejected / malformed) and whose public message, when set,
// is the server-provided detail safe to show to the user.
package authclient
