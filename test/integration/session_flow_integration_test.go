// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

//go:build integration

package integration

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/spf13/afero"

	"github.com/foyerhq/foyer/internal/authclient"
	"github.com/foyerhq/foyer/internal/content"
	"github.com/foyerhq/foyer/internal/devserver"
	"github.com/foyerhq/foyer/internal/session"
	"github.com/foyerhq/foyer/pkg/errutil"
)

var _ = Describe("Session flow", func() {
	var (
		ctx    context.Context
		ts     *httptest.Server
		client *authclient.Client
		fs     afero.Fs
	)

	const sessionDir = "/state/session"

	// newStore simulates one process lifetime over the shared
	// filesystem: a fresh in-memory session hydrated from disk.
	newStore := func() *session.Store {
		store := session.NewStore(session.NewFileRecordStore(fs, sessionDir))
		Expect(store.Hydrate(ctx)).To(Succeed())
		return store
	}

	BeforeEach(func() {
		ctx = context.Background()
		ts = httptest.NewServer(devserver.New([]byte("integration-secret"), time.Minute, slog.Default()).Handler())
		DeferCleanup(ts.Close)

		var err error
		client, err = authclient.New(ts.URL, authclient.Options{})
		Expect(err).NotTo(HaveOccurred())

		fs = afero.NewMemMapFs()
	})

	It("logs in, persists the session, and serves content after a restart", func() {
		store := newStore()
		Expect(store.Current().IsAuthenticated()).To(BeFalse())

		sess, err := client.Login(ctx, devserver.SeedUsername, devserver.SeedPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Set(ctx, sess)).To(Succeed())

		// A second store over the same filesystem plays the role of a
		// restarted process.
		restarted := newStore()
		Expect(restarted.Current().IsAuthenticated()).To(BeTrue())

		user, ok := restarted.Current().User()
		Expect(ok).To(BeTrue())
		Expect(user.Username).To(Equal(devserver.SeedUsername))

		result, err := client.Welcome(ctx, restarted.Current())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Message).To(Equal("Welcome to our application, Admin User!"))
	})

	It("rejects bad credentials and leaves no session behind", func() {
		store := newStore()

		_, err := client.Login(ctx, devserver.SeedUsername, "wrong")
		Expect(err).To(HaveOccurred())
		Expect(errutil.UserMessage(err, authclient.LoginFallback)).To(Equal("Incorrect username or password"))

		Expect(store.Current().IsAuthenticated()).To(BeFalse())
		Expect(newStore().Current().IsAuthenticated()).To(BeFalse())
	})

	It("surfaces a stale token as a content error without dropping the session", func() {
		store := newStore()
		stale, err := session.Authenticated(session.User{Username: devserver.SeedUsername}, "expired-token")
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Set(ctx, stale)).To(Succeed())

		loader := content.NewLoader(client, slog.Default())
		state := loader.Load(ctx, store.Current())
		Expect(state.Phase).To(Equal(content.PhaseError))
		Expect(state.Message).To(Equal("Invalid or expired token"))

		// The session itself survives; only a fresh login replaces it.
		Expect(store.Current().IsAuthenticated()).To(BeTrue())

		sess, err := client.Login(ctx, devserver.SeedUsername, devserver.SeedPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Set(ctx, sess)).To(Succeed())

		state = loader.Load(ctx, store.Current())
		Expect(state.Phase).To(Equal(content.PhaseSuccess))
	})

	It("tears the session down on logout, including the durable record", func() {
		store := newStore()
		sess, err := client.Login(ctx, devserver.SeedUsername, devserver.SeedPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Set(ctx, sess)).To(Succeed())

		var observed []bool
		cancel := store.Subscribe(func(s session.Session) {
			observed = append(observed, s.IsAuthenticated())
		})
		DeferCleanup(cancel)

		Expect(store.Clear(ctx)).To(Succeed())
		Expect(store.Current().IsAuthenticated()).To(BeFalse())
		Expect(observed).To(Equal([]bool{false}))

		// Nothing hydrates after the teardown.
		Expect(newStore().Current().IsAuthenticated()).To(BeFalse())

		// Clearing again is a no-op.
		Expect(store.Clear(ctx)).To(Succeed())
		Expect(observed).To(HaveLen(1))
	})
})
