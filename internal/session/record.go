// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/afero"
)

// Record is the durable session record: the serialized {token, user}
// pair persisted outside process memory so a restart can reconstruct
// the Session. Not encrypted; treated as sensitive and stored with
// owner-only permissions.
type Record struct {
	Token string
	User  User
}

// RecordStore persists and retrieves the durable session record.
type RecordStore interface {
	// Load returns the persisted record. The boolean is false when no
	// complete record exists (which is not an error).
	Load(ctx context.Context) (Record, bool, error)

	// Save writes the record, replacing any previous one.
	Save(ctx context.Context, rec Record) error

	// Erase removes the record. Erasing an absent record is a no-op.
	Erase(ctx context.Context) error
}

// Record entry names under the session directory. The token entry is
// written last and read first: its presence marks a complete record.
const (
	tokenEntry = "token"
	userEntry  = "user.json"
)

// FileRecordStore keeps the record as two entries in a directory: a
// plain-text token file and a JSON user file. Absence of either entry
// means "no persisted session". The afero filesystem abstraction keeps
// the store testable with an in-memory fs.
type FileRecordStore struct {
	fs  afero.Fs
	dir string
}

// NewFileRecordStore creates a record store rooted at dir.
func NewFileRecordStore(fs afero.Fs, dir string) *FileRecordStore {
	return &FileRecordStore{fs: fs, dir: dir}
}

// Dir returns the directory holding the record entries.
func (frs *FileRecordStore) Dir() string {
	return frs.dir
}

// Load reads both entries. A missing entry yields (Record{}, false, nil);
// a present but unusable record (bad JSON, empty fields) is reported as
// SESSION_RECORD_CORRUPT so the caller can erase and start anonymous.
func (frs *FileRecordStore) Load(_ context.Context) (Record, bool, error) {
	tokenBytes, err := afero.ReadFile(frs.fs, filepath.Join(frs.dir, tokenEntry))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, oops.Code("SESSION_RECORD_READ_FAILED").
			With("entry", tokenEntry).
			Wrap(err)
	}

	userBytes, err := afero.ReadFile(frs.fs, filepath.Join(frs.dir, userEntry))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, oops.Code("SESSION_RECORD_READ_FAILED").
			With("entry", userEntry).
			Wrap(err)
	}

	var user User
	if err := json.Unmarshal(userBytes, &user); err != nil {
		return Record{}, false, oops.Code("SESSION_RECORD_CORRUPT").
			With("entry", userEntry).
			Wrap(err)
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token == "" || strings.TrimSpace(user.Username) == "" {
		return Record{}, false, oops.Code("SESSION_RECORD_CORRUPT").
			Errorf("record is missing token or username")
	}

	return Record{Token: token, User: user}, true, nil
}

// Save writes the user entry first and the token entry last, both with
// 0600 permissions. The directory is created with 0700 if needed.
func (frs *FileRecordStore) Save(_ context.Context, rec Record) error {
	if err := frs.fs.MkdirAll(frs.dir, 0o700); err != nil {
		return oops.Code("SESSION_RECORD_WRITE_FAILED").
			With("dir", frs.dir).
			Wrap(err)
	}

	userBytes, err := json.Marshal(rec.User)
	if err != nil {
		return oops.Code("SESSION_RECORD_WRITE_FAILED").
			With("entry", userEntry).
			Wrap(err)
	}
	if err := afero.WriteFile(frs.fs, filepath.Join(frs.dir, userEntry), userBytes, 0o600); err != nil {
		return oops.Code("SESSION_RECORD_WRITE_FAILED").
			With("entry", userEntry).
			Wrap(err)
	}

	if err := afero.WriteFile(frs.fs, filepath.Join(frs.dir, tokenEntry), []byte(rec.Token), 0o600); err != nil {
		return oops.Code("SESSION_RECORD_WRITE_FAILED").
			With("entry", tokenEntry).
			Wrap(err)
	}

	return nil
}

// Erase removes both entries. The token entry goes first so a crash
// mid-erase never leaves a record that Load would consider complete.
func (frs *FileRecordStore) Erase(_ context.Context) error {
	for _, entry := range []string{tokenEntry, userEntry} {
		if err := frs.fs.Remove(filepath.Join(frs.dir, entry)); err != nil && !os.IsNotExist(err) {
			return oops.Code("SESSION_RECORD_ERASE_FAILED").
				With("entry", entry).
				Wrap(err)
		}
	}
	return nil
}
