// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides account operations for the quill CLI.
// It signs users in with email/password or a Google ID token, registers and
// verifies accounts, and manages the password lifecycle. Tokens issued by the
// backend are kept in the token store; the last known profile is cached in the
// XDG state directory for offline display.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"quill/cli/internal/apipaths"
	"quill/cli/internal/backend"
	apperr "quill/cli/internal/errors"
	"quill/cli/internal/logging"
	"quill/cli/internal/tokenstore"
)

// API is the part of the backend client the service uses.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// Service centralizes account operations against the backend and the local
// token store.
type Service struct {
	api     API
	store   tokenstore.Store
	profile *ProfileCache
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithProfileCache enables caching of the signed-in profile.
func WithProfileCache(pc *ProfileCache) Option {
	return func(s *Service) { s.profile = pc }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService constructs a Service. store must be the same store the API
// client reads its bearer token from.
func NewService(api API, store tokenstore.Store, opts ...Option) *Service {
	s := &Service{api: api, store: store, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// User is the account record returned by the userinfo endpoint.
type User struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
	IsActive        bool   `json:"is_active"`
	DateJoined      string `json:"date_joined"`
}

// DisplayName returns the username, or the email when no username is set.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login signs in with email and password and stores the issued tokens.
func (s *Service) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return apperr.New(apperr.Invalid, "email and password are required")
	}
	var tokens backend.Tokens
	if err := s.api.Post(ctx, apipaths.Login, loginRequest{Email: email, Password: password}, &tokens); err != nil {
		return explain(err, "login", backendMessage)
	}
	return s.saveTokens(tokens)
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

// GoogleLogin exchanges a Google ID token for backend tokens and stores them.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) error {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return apperr.New(apperr.Invalid, "Google ID token is required")
	}
	var tokens backend.Tokens
	if err := s.api.Post(ctx, apipaths.GoogleLogin, googleLoginRequest{Token: idToken}, &tokens); err != nil {
		return explain(err, "google login", backendMessage)
	}
	return s.saveTokens(tokens)
}

// saveTokens stores a new session. The cached profile belongs to whoever
// was signed in before, so it is dropped.
func (s *Service) saveTokens(t backend.Tokens) error {
	if err := tokenstore.SaveTokens(s.store, t.Access, t.Refresh); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	s.forgetProfile()
	s.logger.Debug("tokens stored", "has_refresh", t.Refresh != "")
	return nil
}

func (s *Service) forgetProfile() {
	if s.profile == nil {
		return
	}
	if err := s.profile.Clear(); err != nil {
		s.logger.Debug("profile cache not cleared", "error", err)
	}
}

// UserInfo returns the signed-in account and refreshes the profile cache.
func (s *Service) UserInfo(ctx context.Context) (*User, error) {
	var u User
	if err := s.api.Get(ctx, apipaths.UserInfo, &u); err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	if s.profile != nil {
		if err := s.profile.Save(Profile{Username: u.Username, Email: u.Email, Role: u.Role}); err != nil {
			s.logger.Debug("profile cache not updated", "error", err)
		}
	}
	return &u, nil
}

// CachedProfile returns the last profile seen by UserInfo, if any.
func (s *Service) CachedProfile() (Profile, bool) {
	if s.profile == nil {
		return Profile{}, false
	}
	p, err := s.profile.Load()
	if err != nil || p.Email == "" {
		return Profile{}, false
	}
	return p, true
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// Logout blacklists the refresh token on the backend (best-effort) and then
// always removes both tokens and the cached profile locally.
func (s *Service) Logout(ctx context.Context) error {
	if refresh := tokenstore.RefreshToken(s.store); refresh != "" && tokenstore.AccessToken(s.store) != "" {
		if err := s.api.Post(ctx, apipaths.Logout, logoutRequest{Refresh: refresh}, nil); err != nil {
			s.logger.Debug("remote logout failed", "error", logging.Mask(err.Error()))
		}
	}
	var errs []error
	if err := tokenstore.Clear(s.store); err != nil {
		errs = append(errs, err)
	}
	if s.profile != nil {
		if err := s.profile.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SignedIn reports whether an access token is stored. It does not contact
// the backend; use the session probe for that.
func (s *Service) SignedIn() bool {
	return tokenstore.AccessToken(s.store) != ""
}
