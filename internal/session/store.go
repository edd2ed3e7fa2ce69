// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/oops"
)

// Store owns the single Session for the running process. It is the
// only writer of authentication state: login flows call Set, logout
// calls Clear, and everything else reads Current or subscribes to
// change notifications. Mutex-guarded so background fetch goroutines
// can read it safely.
type Store struct {
	mu          sync.RWMutex
	current     Session
	records     RecordStore
	subscribers map[int]func(Session)
	nextSubID   int
}

// NewStore creates a Store in the anonymous state backed by the given
// durable record store.
func NewStore(records RecordStore) *Store {
	return &Store{
		records:     records,
		subscribers: make(map[int]func(Session)),
	}
}

// Current returns the live session.
func (st *Store) Current() Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Set installs an authenticated session. The in-memory state is
// updated and subscribers are notified synchronously before the
// durable record is written, so anything rendering off the session
// sees the new state immediately; the two writes are not atomic with
// each other. Rejects anonymous sessions; use Clear for those.
func (st *Store) Set(ctx context.Context, sess Session) error {
	if !sess.IsAuthenticated() {
		return oops.Code("SESSION_NOT_AUTHENTICATED").
			Errorf("Set requires an authenticated session; use Clear to go anonymous")
	}

	st.mu.Lock()
	st.current = sess
	subscribers := st.snapshotSubscribers()
	st.mu.Unlock()

	for _, notify := range subscribers {
		notify(sess)
	}

	user, _ := sess.User()
	token, _ := sess.Token()
	if err := st.records.Save(ctx, Record{Token: token, User: user}); err != nil {
		// Memory already holds the session; the caller decides whether
		// a failed persist is worth surfacing.
		return oops.Code("SESSION_PERSIST_FAILED").
			With("username", user.Username).
			Wrap(err)
	}

	slog.Debug("session stored", "username", user.Username)
	return nil
}

// Clear resets the session to anonymous and erases the durable record.
// Idempotent: clearing an already-anonymous store is a no-op and does
// not notify subscribers.
func (st *Store) Clear(ctx context.Context) error {
	st.mu.Lock()
	wasAuthenticated := st.current.IsAuthenticated()
	st.current = Anonymous()
	subscribers := st.snapshotSubscribers()
	st.mu.Unlock()

	if wasAuthenticated {
		for _, notify := range subscribers {
			notify(Anonymous())
		}
	}

	if err := st.records.Erase(ctx); err != nil {
		return oops.Code("SESSION_ERASE_FAILED").Wrap(err)
	}

	if wasAuthenticated {
		slog.Debug("session cleared")
	}
	return nil
}

// Hydrate reconstructs the session from the durable record, if one
// exists. No record means the store simply stays anonymous. A corrupt
// or partial record is erased and ignored; a reload must never leave
// the process in a half-authenticated state.
func (st *Store) Hydrate(ctx context.Context) error {
	rec, ok, err := st.records.Load(ctx)
	if err != nil {
		slog.Warn("discarding unreadable session record", "error", err)
		if eraseErr := st.records.Erase(ctx); eraseErr != nil {
			return oops.Code("SESSION_HYDRATE_FAILED").Wrap(eraseErr)
		}
		return nil
	}
	if !ok {
		// Erase covers a partial record (one entry of two) so half a
		// session never lingers on disk.
		if eraseErr := st.records.Erase(ctx); eraseErr != nil {
			return oops.Code("SESSION_HYDRATE_FAILED").Wrap(eraseErr)
		}
		return nil
	}

	sess, err := Authenticated(rec.User, rec.Token)
	if err != nil {
		slog.Warn("discarding invalid session record", "error", err)
		if eraseErr := st.records.Erase(ctx); eraseErr != nil {
			return oops.Code("SESSION_HYDRATE_FAILED").Wrap(eraseErr)
		}
		return nil
	}

	st.mu.Lock()
	st.current = sess
	st.mu.Unlock()

	slog.Debug("session hydrated", "username", rec.User.Username)
	return nil
}

// Subscribe registers a change callback and returns a cancel function.
// Callbacks run synchronously on the mutating call after the in-memory
// state has changed; they must not call back into the store.
func (st *Store) Subscribe(fn func(Session)) func() {
	st.mu.Lock()
	id := st.nextSubID
	st.nextSubID++
	st.subscribers[id] = fn
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.subscribers, id)
		st.mu.Unlock()
	}
}

// snapshotSubscribers copies the callback list so notification happens
// outside the lock. Callers must hold st.mu.
func (st *Store) snapshotSubscribers() []func(Session) {
	out := make([]func(Session), 0, len(st.subscribers))
	for _, fn := range st.subscribers {
		out = append(out, fn)
	}
	return out
}
