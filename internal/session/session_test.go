// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/pkg/errutil"
)

func TestAnonymous(t *testing.T) {
	sess := session.Anonymous()

	assert.False(t, sess.IsAuthenticated())

	_, ok := sess.User()
	assert.False(t, ok)

	_, ok = sess.Token()
	assert.False(t, ok)
}

func TestAuthenticated(t *testing.T) {
	t.Run("valid user and token", func(t *testing.T) {
		sess, err := session.Authenticated(session.User{Username: "alice", FullName: "Alice A"}, "tok123")
		require.NoError(t, err)

		assert.True(t, sess.IsAuthenticated())

		user, ok := sess.User()
		require.True(t, ok)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "Alice A", user.FullName)

		token, ok := sess.Token()
		require.True(t, ok)
		assert.Equal(t, "tok123", token)
	})

	t.Run("rejects empty username", func(t *testing.T) {
		_, err := session.Authenticated(session.User{Username: "   "}, "tok123")
		errutil.AssertErrorCode(t, err, "SESSION_INVALID_USER")
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := session.Authenticated(session.User{Username: "alice"}, "")
		errutil.AssertErrorCode(t, err, "SESSION_INVALID_TOKEN")
	})

	t.Run("full name is optional", func(t *testing.T) {
		sess, err := session.Authenticated(session.User{Username: "alice"}, "tok123")
		require.NoError(t, err)
		assert.True(t, sess.IsAuthenticated())
	})
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Alice A", session.User{Username: "alice", FullName: "Alice A"}.DisplayName())
	assert.Equal(t, "alice", session.User{Username: "alice"}.DisplayName())
}

func TestSessionEqual(t *testing.T) {
	a, err := session.Authenticated(session.User{Username: "alice"}, "tok1")
	require.NoError(t, err)
	b, err := session.Authenticated(session.User{Username: "alice"}, "tok1")
	require.NoError(t, err)
	c, err := session.Authenticated(session.User{Username: "alice"}, "tok2")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(session.Anonymous()))
	assert.True(t, session.Anonymous().Equal(session.Anonymous()))
}
