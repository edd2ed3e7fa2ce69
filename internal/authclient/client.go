// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package authclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/foyerhq/foyer/internal/session"
)

// Generic user-facing fallback messages, used when the server's error
// payload carries no detail field.
const (
	LoginFallback   = "Login failed. Please check your credentials."
	WelcomeFallback = "Failed to load welcome content"
)

const defaultTimeout = 15 * time.Second

// Ping backoff parameters. Ping is a reachability probe, not one of
// the user-triggered operations, so retrying it does not violate the
// "no automatic retry" rule for login and content fetches.
const (
	pingRetries = 4
	pingBackoff = 200 * time.Millisecond
)

// Client talks to the token service over HTTP. It issues exactly one
// request per call and never retries Login or Welcome; failures are
// normalized to coded errors whose public message carries the server's
// detail payload when present.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Options overrides the client's dependencies.
type Options struct {
	// HTTPClient replaces the default client (15s timeout).
	HTTPClient *http.Client
	// Timeout applies to the default client; ignored when HTTPClient
	// is set. Zero keeps the default.
	Timeout time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, oops.Code("CLIENT_CONFIG_INVALID").Errorf("server URL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, oops.Code("CLIENT_CONFIG_INVALID").
			With("url", baseURL).
			Wrap(err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, oops.Code("CLIENT_CONFIG_INVALID").
			With("url", baseURL).
			Errorf("server URL must be absolute")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{baseURL: parsed, httpClient: httpClient, logger: logger}, nil
}

// tokenResponse mirrors the 2xx body of POST /token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
	} `json:"user"`
}

// errorResponse mirrors the failure body shape. A missing or
// unparsable body is tolerated; detail is then simply empty.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Content is the payload of the protected welcome resource.
type Content struct {
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
}

// Login exchanges credentials for an authenticated session via POST
// /token with HTTP Basic authentication. The caller's form validation
// rejects empty fields before this is invoked; the server is the
// authority on whether the credentials are valid.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/token", nil)
	if err != nil {
		return session.Session{}, err
	}
	req.SetBasicAuth(username, password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return session.Session{}, oops.Code("AUTH_NETWORK").
			With("username", username).
			Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := decodeDetail(resp.Body)
		c.logger.Debug("login rejected", "status", resp.StatusCode, "username", username)
		builder := oops.Code("AUTH_REJECTED").With("status", resp.StatusCode)
		if detail != "" {
			builder = builder.Public(detail)
		}
		return session.Session{}, builder.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return session.Session{}, oops.Code("AUTH_MALFORMED").Wrap(err)
	}
	if strings.TrimSpace(body.AccessToken) == "" {
		return session.Session{}, oops.Code("AUTH_MALFORMED").Errorf("token response has no access_token")
	}
	if strings.TrimSpace(body.User.Username) == "" {
		return session.Session{}, oops.Code("AUTH_MALFORMED").Errorf("token response has no user")
	}

	sess, err := session.Authenticated(session.User{
		Username: body.User.Username,
		FullName: body.User.FullName,
	}, body.AccessToken)
	if err != nil {
		return session.Session{}, oops.Code("AUTH_MALFORMED").Wrap(err)
	}

	c.logger.Debug("login succeeded", "username", body.User.Username)
	return sess, nil
}

// Welcome fetches the protected welcome resource for an authenticated
// session, passing the bearer token and username as query parameters.
// A 401 here is an ordinary error: the session is left untouched and
// the user can retry or log in again.
func (c *Client) Welcome(ctx context.Context, sess session.Session) (Content, error) {
	token, ok := sess.Token()
	if !ok {
		return Content{}, oops.Code("CONTENT_NO_SESSION").
			Errorf("welcome requires an authenticated session")
	}
	user, _ := sess.User()

	query := url.Values{}
	query.Set("token", token)
	query.Set("username", user.Username)

	req, err := c.newRequest(ctx, http.MethodGet, "/welcome", query)
	if err != nil {
		return Content{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Content{}, oops.Code("CONTENT_NETWORK").
			With("username", user.Username).
			Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := decodeDetail(resp.Body)
		c.logger.Debug("welcome rejected", "status", resp.StatusCode, "username", user.Username)
		builder := oops.Code("CONTENT_REJECTED").With("status", resp.StatusCode)
		if detail != "" {
			builder = builder.Public(detail)
		}
		return Content{}, builder.Errorf("welcome endpoint returned status %d", resp.StatusCode)
	}

	var content Content
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return Content{}, oops.Code("CONTENT_MALFORMED").Wrap(err)
	}
	if content.Message == "" {
		return Content{}, oops.Code("CONTENT_MALFORMED").Errorf("welcome response has no message")
	}

	return content, nil
}

// Ping probes the service root until it answers 2xx, with bounded
// fibonacci backoff. Used by "foyer status" and startup checks.
func (c *Client) Ping(ctx context.Context) error {
	backoff := retry.WithMaxRetries(pingRetries, retry.NewFibonacci(pingBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := c.newRequest(ctx, http.MethodGet, "/", nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return retry.RetryableError(oops.Code("PING_FAILED").
				With("status", resp.StatusCode).
				Errorf("unexpected status %d", resp.StatusCode))
		}
		return nil
	})
	if err != nil {
		return oops.Code("PING_FAILED").
			With("url", c.baseURL.String()).
			Wrap(err)
	}
	return nil
}

// newRequest builds a request against the base URL with the standard
// headers and a fresh request ID for log correlation.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	full := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, full.String(), nil)
	if err != nil {
		return nil, oops.Code("CLIENT_REQUEST_FAILED").
			With("method", method).
			With("path", path).
			Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", ulid.Make().String())
	return req, nil
}

// decodeDetail extracts the detail field from an error body. Any read
// or parse problem yields an empty string; the absence of detail must
// be tolerated.
func decodeDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Detail)
}
