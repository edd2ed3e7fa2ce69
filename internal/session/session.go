// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package session

import (
	"strings"

	"github.com/samber/oops"
)

// User identifies the authenticated account. Identity is Username;
// FullName is display-only and may be empty. The JSON tags define both
// the wire format and the durable record format.
type User struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName returns the name to greet the user with: the full name
// when known, otherwise the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Session is the client's current belief about whether a user is
// authenticated, and with what identity and token. The zero value is
// the anonymous session. A non-anonymous Session can only be built via
// Authenticated, so "authenticated iff user and token are both set"
// holds by construction rather than by convention.
type Session struct {
	user  *User
	token string
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session {
	return Session{}
}

// Authenticated builds a session for the given user and bearer token.
// Returns an error if the username or token is empty.
func Authenticated(user User, token string) (Session, error) {
	if strings.TrimSpace(user.Username) == "" {
		return Session{}, oops.Code("SESSION_INVALID_USER").Errorf("username cannot be empty")
	}
	if token == "" {
		return Session{}, oops.Code("SESSION_INVALID_TOKEN").Errorf("token cannot be empty")
	}
	u := user
	return Session{user: &u, token: token}, nil
}

// IsAuthenticated reports whether the session carries an identity.
func (s Session) IsAuthenticated() bool {
	return s.user != nil && s.token != ""
}

// User returns the session's user, or false for an anonymous session.
func (s Session) User() (User, bool) {
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Token returns the opaque bearer token, or false for an anonymous
// session. The token has no client-visible structure; it is passed
// back verbatim on every protected request.
func (s Session) Token() (string, bool) {
	if !s.IsAuthenticated() {
		return "", false
	}
	return s.token, true
}

// Equal reports whether two sessions hold the same identity and token.
func (s Session) Equal(other Session) bool {
	if s.IsAuthenticated() != other.IsAuthenticated() {
		return false
	}
	if !s.IsAuthenticated() {
		return true
	}
	return *s.user == *other.user && s.token == other.token
}
