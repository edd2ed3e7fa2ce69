// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/foyerhq/foyer/internal/authclient"
	"github.com/foyerhq/foyer/pkg/errutil"
)

// NewLoginCmd creates the login subcommand.
func NewLoginCmd() *cobra.Command {
	var passwordFile string

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and persist the session",
		Long: `Sign in against the token service. The username is taken from the
argument or prompted for; the password is read from --password-file or
prompted for without echo. On success the session is persisted and
survives until "foyer logout".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}

			username := ""
			if len(args) == 1 {
				username = strings.TrimSpace(args[0])
			}
			if username == "" {
				if username, err = promptUsername(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			password, err := readPassword(passwordFile, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if username == "" || password == "" {
				return oops.Code("LOGIN_INPUT_INVALID").
					Public("Username and password are required").
					Errorf("empty credentials")
			}

			sess, err := env.client.Login(cmd.Context(), username, password)
			if err != nil {
				errutil.LogError(env.logger, "login failed", err)
				return errors.New(errutil.UserMessage(err, authclient.LoginFallback))
			}
			if err := env.store.Set(cmd.Context(), sess); err != nil {
				return err
			}

			user, _ := sess.User()
			cmd.Printf("Logged in as %s\n", user.DisplayName())
			cmd.Printf("Session saved to %s\n", env.cfg.SessionDir())
			return nil
		},
	}

	cmd.Flags().StringVar(&passwordFile, "password-file", "", "read the password from this file instead of prompting")
	return cmd
}

func promptUsername(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Username: ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", oops.Code("LOGIN_INPUT_INVALID").Wrap(err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword takes the password from the given file when set, from a
// no-echo terminal prompt when stdin is a TTY, and from a plain line
// read otherwise (piped input).
func readPassword(passwordFile string, in io.Reader, out io.Writer) (string, error) {
	if passwordFile != "" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", oops.Code("LOGIN_INPUT_INVALID").
				With("password_file", passwordFile).
				Wrap(err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", oops.Code("LOGIN_INPUT_INVALID").Wrap(err)
		}
		return string(data), nil
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", oops.Code("LOGIN_INPUT_INVALID").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
