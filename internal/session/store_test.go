// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/pkg/errutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// failingRecordStore returns a fixed error from every operation.
type failingRecordStore struct {
	err error
}

func (f *failingRecordStore) Load(context.Context) (session.Record, bool, error) {
	return session.Record{}, false, f.err
}
func (f *failingRecordStore) Save(context.Context, session.Record) error { return f.err }
func (f *failingRecordStore) Erase(context.Context) error                { return f.err }

func newTestStore(t *testing.T) (*session.Store, *session.FileRecordStore) {
	t.Helper()
	records := session.NewFileRecordStore(afero.NewMemMapFs(), "/state/session")
	return session.NewStore(records), records
}

func authenticated(t *testing.T, username, token string) session.Session {
	t.Helper()
	sess, err := session.Authenticated(session.User{Username: username}, token)
	require.NoError(t, err)
	return sess
}

func TestStoreSet(t *testing.T) {
	ctx := context.Background()

	t.Run("stores session and writes the durable record", func(t *testing.T) {
		store, records := newTestStore(t)
		sess := authenticated(t, "alice", "tok123")

		require.NoError(t, store.Set(ctx, sess))

		assert.True(t, store.Current().Equal(sess))

		rec, ok, err := records.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "tok123", rec.Token)
		assert.Equal(t, "alice", rec.User.Username)
	})

	t.Run("rejects anonymous sessions", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.Set(ctx, session.Anonymous())
		errutil.AssertErrorCode(t, err, "SESSION_NOT_AUTHENTICATED")
		assert.False(t, store.Current().IsAuthenticated())
	})

	t.Run("notifies subscribers before returning", func(t *testing.T) {
		store, _ := newTestStore(t)
		sess := authenticated(t, "alice", "tok123")

		var seen []session.Session
		cancel := store.Subscribe(func(s session.Session) { seen = append(seen, s) })
		defer cancel()

		require.NoError(t, store.Set(ctx, sess))
		require.Len(t, seen, 1)
		assert.True(t, seen[0].Equal(sess))
	})

	t.Run("memory updated even when persistence fails", func(t *testing.T) {
		records := &failingRecordStore{err: errors.New("disk full")}
		store := session.NewStore(records)
		sess := authenticated(t, "alice", "tok123")

		err := store.Set(ctx, sess)
		errutil.AssertErrorCode(t, err, "SESSION_PERSIST_FAILED")
		assert.True(t, store.Current().Equal(sess))
	})
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()

	t.Run("resets to anonymous and erases the record", func(t *testing.T) {
		store, records := newTestStore(t)
		require.NoError(t, store.Set(ctx, authenticated(t, "alice", "tok123")))

		require.NoError(t, store.Clear(ctx))

		assert.False(t, store.Current().IsAuthenticated())
		_, ok, err := records.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Clear(ctx))
		assert.False(t, store.Current().IsAuthenticated())
	})

	t.Run("only notifies when state actually changes", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Set(ctx, authenticated(t, "alice", "tok123")))

		notifications := 0
		cancel := store.Subscribe(func(session.Session) { notifications++ })
		defer cancel()

		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Clear(ctx))
		assert.Equal(t, 1, notifications)
	})
}

func TestStoreHydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a persisted session", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		records := session.NewFileRecordStore(fs, "/state/session")
		original := session.NewStore(records)
		sess, err := session.Authenticated(session.User{Username: "alice", FullName: "Alice A"}, "tok123")
		require.NoError(t, err)
		require.NoError(t, original.Set(ctx, sess))

		// Simulated reload: a fresh store over the same filesystem.
		reloaded := session.NewStore(session.NewFileRecordStore(fs, "/state/session"))
		require.NoError(t, reloaded.Hydrate(ctx))

		assert.True(t, reloaded.Current().Equal(sess))
	})

	t.Run("stays anonymous without a record", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Hydrate(ctx))
		assert.False(t, store.Current().IsAuthenticated())
	})

	t.Run("cleans up a partial record and stays anonymous", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		records := session.NewFileRecordStore(fs, "/state/session")
		// Only the user entry survived; no token means no session.
		require.NoError(t, afero.WriteFile(fs, "/state/session/user.json", []byte(`{"username":"alice"}`), 0o600))

		store := session.NewStore(records)
		require.NoError(t, store.Hydrate(ctx))

		assert.False(t, store.Current().IsAuthenticated())
		exists, err := afero.Exists(fs, "/state/session/user.json")
		require.NoError(t, err)
		assert.False(t, exists, "orphaned entry should be erased")
	})

	t.Run("erases a corrupt record and stays anonymous", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		records := session.NewFileRecordStore(fs, "/state/session")
		require.NoError(t, records.Save(ctx, session.Record{Token: "tok", User: session.User{Username: "alice"}}))
		require.NoError(t, afero.WriteFile(fs, "/state/session/user.json", []byte("{broken"), 0o600))

		store := session.NewStore(records)
		require.NoError(t, store.Hydrate(ctx))

		assert.False(t, store.Current().IsAuthenticated())
		_, ok, err := records.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStoreSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel stops delivery", func(t *testing.T) {
		store, _ := newTestStore(t)

		notifications := 0
		cancel := store.Subscribe(func(session.Session) { notifications++ })

		require.NoError(t, store.Set(ctx, authenticated(t, "alice", "tok1")))
		cancel()
		require.NoError(t, store.Set(ctx, authenticated(t, "alice", "tok2")))

		assert.Equal(t, 1, notifications)
	})

	t.Run("multiple subscribers all see the change", func(t *testing.T) {
		store, _ := newTestStore(t)

		first, second := 0, 0
		defer store.Subscribe(func(session.Session) { first++ })()
		defer store.Subscribe(func(session.Session) { second++ })()

		require.NoError(t, store.Set(ctx, authenticated(t, "alice", "tok1")))
		assert.Equal(t, 1, first)
		assert.Equal(t, 1, second)
	})
}
