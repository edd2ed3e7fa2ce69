// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package devserver implements a small token service compatible with
// the Foyer client. It backs the foyer-devserver binary and the
// integration suite; state is in-memory and resets on restart.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// Seeded development account.
const (
	SeedUsername = "admin"
	SeedPassword = "secret"
	SeedFullName = "Admin User"
)

type account struct {
	Username string
	FullName string
	hash     []byte
}

func (a account) displayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}

// Server holds the in-memory user table and token settings.
type Server struct {
	logger *slog.Logger
	secret []byte
	ttl    time.Duration

	mu    sync.RWMutex
	users map[string]account
}

// New creates a server seeded with the development account. A nil
// logger defaults to slog.Default().
func New(secret []byte, ttl time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger: logger,
		secret: secret,
		ttl:    ttl,
		users:  make(map[string]account),
	}
	// bcrypt.MinCost keeps startup and tests fast; this server never
	// guards real credentials.
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.users[SeedUsername] = account{Username: SeedUsername, FullName: SeedFullName, hash: hash}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLog)
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/welcome", s.handleWelcome).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	return r
}

// requestLog tags every request with an ID and logs method, path and
// duration at debug level.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = ulid.Make().String()
		}
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the authentication API",
	})
}

// handleToken exchanges HTTP Basic credentials for a signed access
// token plus the user's profile.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="foyer"`)
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	s.mu.RLock()
	acct, found := s.users[username]
	s.mu.RUnlock()
	if !found || bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		w.Header().Set("WWW-Authenticate", `Basic realm="foyer"`)
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   acct.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("token signing failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Token generation failed")
		return
	}

	s.logger.Info("token issued", "username", acct.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": signed,
		"token_type":   "bearer",
		"user": map[string]string{
			"username":  acct.Username,
			"full_name": acct.FullName,
		},
	})
}

// handleWelcome validates the token from the query string and returns
// the personalized greeting. The username parameter must match the
// token's subject.
func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	username := r.URL.Query().Get("username")
	if tokenString == "" || username == "" {
		writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject != username {
		writeDetail(w, http.StatusUnauthorized, "Token username mismatch")
		return
	}

	s.mu.RLock()
	acct, found := s.users[username]
	s.mu.RUnlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to our application, " + acct.displayName() + "!",
		"user":    acct.Username,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// handleRegister adds a user to the in-memory table.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Username]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	s.users[req.Username] = account{Username: req.Username, FullName: req.FullName, hash: hash}
	s.mu.Unlock()

	s.logger.Info("user registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, map[string]string{
		"username":  req.Username,
		"full_name": req.FullName,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDetail writes the error body shape clients rely on.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
