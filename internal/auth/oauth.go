// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"quill/cli/internal/logging"
)

// OAuthConfig describes the identity provider used for Google sign-in.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	// Endpoint defaults to Google.
	Endpoint oauth2.Endpoint
	// Scopes default to openid, email and profile.
	Scopes []string
	// Port of the loopback callback server; 0 picks a free port.
	Port int
	// OpenBrowser opens the authorization URL. Defaults to the system browser.
	OpenBrowser func(url string) error
}

// Flow runs an authorization-code flow with PKCE against a loopback
// redirect and yields the provider's ID token.
type Flow struct {
	cfg    OAuthConfig
	logger *slog.Logger
}

// NewFlow validates cfg and fills in defaults.
func NewFlow(cfg OAuthConfig, logger *slog.Logger) (*Flow, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("OAuth client ID is required (set oauth_client_id or QUILL_OAUTH_CLIENT_ID)")
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = endpoints.Google
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "email", "profile"}
	}
	if cfg.OpenBrowser == nil {
		cfg.OpenBrowser = browser.OpenURL
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Flow{cfg: cfg, logger: logger}, nil
}

type callbackResult struct {
	token *oauth2.Token
	err   error
}

// IDToken opens the browser, waits for the callback and returns the
// id_token from the token response.
func (f *Flow) IDToken(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.cfg.Port))
	if err != nil {
		return "", fmt.Errorf("start callback listener: %w", err)
	}

	conf := &oauth2.Config{
		ClientID:     f.cfg.ClientID,
		ClientSecret: f.cfg.ClientSecret,
		Endpoint:     f.cfg.Endpoint,
		Scopes:       f.cfg.Scopes,
		RedirectURL:  fmt.Sprintf("http://%s/callback", ln.Addr().String()),
	}
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", f.handleCallback(ctx, conf, state, verifier, results))

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("callback server: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			f.logger.Warn("failed to shut down callback server", "error", err)
		}
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	f.logger.Debug("opening browser for OAuth consent", "redirect", conf.RedirectURL)
	if err := f.cfg.OpenBrowser(authURL); err != nil {
		f.logger.Warn("could not open browser; open this URL manually", "url", authURL)
	}

	select {
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		idToken, _ := res.token.Extra("id_token").(string)
		if idToken == "" {
			return "", errors.New("provider response did not include an id_token")
		}
		return idToken, nil
	case <-ctx.Done():
		return "", fmt.Errorf("OAuth flow cancelled: %w", ctx.Err())
	}
}

func (f *Flow) handleCallback(ctx context.Context, conf *oauth2.Config, state, verifier string, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		fail := func(err error) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "<html><body><h1>Sign-in failed</h1><p>%s</p></body></html>", html.EscapeString(err.Error()))
			select {
			case results <- callbackResult{err: err}:
			default:
			}
		}

		if e := q.Get("error"); e != "" {
			fail(fmt.Errorf("OAuth error: %s %s", e, q.Get("error_description")))
			return
		}
		if q.Get("state") != state {
			fail(errors.New("invalid state parameter"))
			return
		}
		code := q.Get("code")
		if code == "" {
			fail(errors.New("missing authorization code"))
			return
		}

		tok, err := conf.Exchange(context.WithoutCancel(ctx), code, oauth2.VerifierOption(verifier))
		if err != nil {
			fail(fmt.Errorf("exchange authorization code: %w", err))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><h1>Signed in</h1><p>You can close this window and return to the terminal.</p></body></html>")
		select {
		case results <- callbackResult{token: tok}:
		default:
		}
	}
}
