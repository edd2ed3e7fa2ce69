// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/pkg/errutil"
)

func TestFileRecordStore(t *testing.T) {
	ctx := context.Background()
	rec := session.Record{
		Token: "tok123",
		User:  session.User{Username: "alice", FullName: "Alice A"},
	}

	t.Run("save then load round-trips", func(t *testing.T) {
		store := session.NewFileRecordStore(afero.NewMemMapFs(), "/state/session")

		require.NoError(t, store.Save(ctx, rec))

		loaded, ok, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, rec, loaded)
	})

	t.Run("empty store has no record", func(t *testing.T) {
		store := session.NewFileRecordStore(afero.NewMemMapFs(), "/state/session")

		_, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing token entry means no record", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := session.NewFileRecordStore(fs, "/state/session")
		require.NoError(t, store.Save(ctx, rec))
		require.NoError(t, fs.Remove(filepath.Join("/state/session", "token")))

		_, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing user entry means no record", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := session.NewFileRecordStore(fs, "/state/session")
		require.NoError(t, store.Save(ctx, rec))
		require.NoError(t, fs.Remove(filepath.Join("/state/session", "user.json")))

		_, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt user entry is an error", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := session.NewFileRecordStore(fs, "/state/session")
		require.NoError(t, store.Save(ctx, rec))
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/state/session", "user.json"), []byte("{not json"), 0o600))

		_, _, err := store.Load(ctx)
		errutil.AssertErrorCode(t, err, "SESSION_RECORD_CORRUPT")
	})

	t.Run("blank token is corrupt", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := session.NewFileRecordStore(fs, "/state/session")
		require.NoError(t, store.Save(ctx, rec))
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/state/session", "token"), []byte("  \n"), 0o600))

		_, _, err := store.Load(ctx)
		errutil.AssertErrorCode(t, err, "SESSION_RECORD_CORRUPT")
	})

	t.Run("erase removes the record", func(t *testing.T) {
		store := session.NewFileRecordStore(afero.NewMemMapFs(), "/state/session")
		require.NoError(t, store.Save(ctx, rec))

		require.NoError(t, store.Erase(ctx))

		_, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("erase is idempotent", func(t *testing.T) {
		store := session.NewFileRecordStore(afero.NewMemMapFs(), "/state/session")
		require.NoError(t, store.Erase(ctx))
		require.NoError(t, store.Erase(ctx))
	})

	t.Run("save replaces a previous record", func(t *testing.T) {
		store := session.NewFileRecordStore(afero.NewMemMapFs(), "/state/session")
		require.NoError(t, store.Save(ctx, rec))

		replacement := session.Record{Token: "tok456", User: session.User{Username: "bob"}}
		require.NoError(t, store.Save(ctx, replacement))

		loaded, ok, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, replacement, loaded)
	})

	t.Run("entries are owner-only on a real filesystem", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "session")
		fs := afero.NewOsFs()
		store := session.NewFileRecordStore(fs, dir)
		require.NoError(t, store.Save(ctx, rec))

		dirInfo, err := fs.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

		for _, entry := range []string{"token", "user.json"} {
			info, err := fs.Stat(filepath.Join(dir, entry))
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), entry)
		}
	})
}
