// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/cli/internal/auth"
	"quill/cli/internal/config"
	apperr "quill/cli/internal/errors"
	"quill/cli/internal/guard"
	"quill/cli/internal/terminal"
	"quill/cli/internal/tokenstore"
)

// fakeBackend serves the endpoints the commands use. validToken is the only
// bearer the identity endpoint accepts.
func fakeBackend(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	authorized := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer "+validToken
	}
	mux.HandleFunc("/account/userinfo/", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"username":"ada","email":"ada@example.com","role":"blogger","is_email_verified":true}`))
	})
	mux.HandleFunc("/account/login/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access":"` + validToken + `","refresh":"r-1"}`))
	})
	mux.HandleFunc("/account/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusResetContent)
	})
	mux.HandleFunc("/articles/articles/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"author":"ada","category":{"id":2,"name":"Go"},"tags":[{"id":1,"name":"cli"}],
			"created_at":"2024-05-02T08:30:00Z","contents":[{"language":"en","title":"Hello quill","body":"world"}],"comments":[]}]`))
	})
	mux.HandleFunc("/articles/comment-manager/", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9,"user":"ada","content":"hi"}`))
	})
	mux.HandleFunc("/account/password/reset/confirm/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account/password/reset/confirm/tok-1/" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"The reset link is invalid"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":"Password has been reset successfully."}`))
	})
	mux.HandleFunc("/account/change-username/", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"message":"Username changed successfully."}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// execute runs the root command with a fresh flag state.
func execute(t *testing.T, store tokenstore.Store, input string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("QUILL_ENV_FILE", filepath.Join(dir, "none.env"))
	t.Setenv("QUILL_API_URL", "")

	flags = globalFlags{}
	loginFlags.email, loginFlags.google, loginFlags.idToken = "", false, ""
	articleFlags.category, articleFlags.keyword, articleFlags.tags = "", "", nil
	showVersion = false
	resetChanged(rootCmd)

	var out bytes.Buffer
	baseDeps = appDeps{
		store:    store,
		profile:  auth.NewProfileCache(filepath.Join(dir, "profile.json")),
		prompter: terminal.NewPrompterFrom(strings.NewReader(input), &bytes.Buffer{}),
	}
	t.Cleanup(func() { baseDeps = appDeps{}; current = nil })

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--plain"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetChanged(c *cobra.Command) {
	reset := func(f *pflag.Flag) { f.Changed = false }
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetChanged(sub)
	}
}

func TestWhoamiRedirectsWithoutSession(t *testing.T) {
	srv := fakeBackend(t, "good")
	out, err := execute(t, tokenstore.NewMemory(), "", "--api-url", srv.URL, "whoami")

	var redirect *guard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, guard.SignIn, redirect.To)
	assert.NotContains(t, out, "ada@example.com", "protected output rendered")
	assert.Equal(t, 1, report(&bytes.Buffer{}, err))
}

func TestWhoamiRendersWithSession(t *testing.T) {
	srv := fakeBackend(t, "good")
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "good"))

	out, err := execute(t, store, "", "--api-url", srv.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "blogger")
}

func TestLoginWhenSignedInRedirectsHome(t *testing.T) {
	srv := fakeBackend(t, "good")
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "good"))

	_, err := execute(t, store, "", "--api-url", srv.URL, "login", "--email", "ada@example.com")
	var redirect *guard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, guard.Home, redirect.To)
	assert.Equal(t, 0, report(&bytes.Buffer{}, err), "already signed in is not a failure")
}

func TestLoginStoresTokens(t *testing.T) {
	srv := fakeBackend(t, "good")
	store := tokenstore.NewMemory()

	out, err := execute(t, store, "ada@example.com\nsecret\n", "--api-url", srv.URL, "login")
	require.NoError(t, err)
	assert.Equal(t, "good", tokenstore.AccessToken(store))
	assert.Equal(t, "r-1", tokenstore.RefreshToken(store))
	assert.Contains(t, out, "ada")
}

func TestLogoutClearsTokens(t *testing.T) {
	srv := fakeBackend(t, "good")
	store := tokenstore.NewMemory()
	require.NoError(t, tokenstore.SaveTokens(store, "good", "r-1"))

	out, err := execute(t, store, "", "--api-url", srv.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.Empty(t, tokenstore.AccessToken(store))
	assert.Empty(t, tokenstore.RefreshToken(store))
}

func TestArticlesList(t *testing.T) {
	srv := fakeBackend(t, "good")
	out, err := execute(t, tokenstore.NewMemory(), "", "--api-url", srv.URL, "articles", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello quill")
	assert.Contains(t, out, "Go")
}

func TestCommentAddRequiresSession(t *testing.T) {
	srv := fakeBackend(t, "good")
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "stale"))

	_, err := execute(t, store, "", "--api-url", srv.URL, "comments", "add", "7", "hi")
	var redirect *guard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Empty(t, tokenstore.AccessToken(store), "stale token removed by the probe")

	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "good"))
	out, err := execute(t, store, "", "--api-url", srv.URL, "comments", "add", "7", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "Comment 9 added to article 7")
}

func TestStatus(t *testing.T) {
	srv := fakeBackend(t, "good")
	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "expired"))

	out, err := execute(t, store, "", "--api-url", srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "expired and was removed")
	assert.Contains(t, out, "quill login")
}

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{name: "redirect home", err: &guard.RedirectError{To: guard.Home}, wantCode: 0, wantOut: "already signed in"},
		{name: "redirect sign-in", err: &guard.RedirectError{To: guard.SignIn}, wantCode: 1, wantOut: "quill login"},
		{name: "invalid input", err: during("registering", apperr.New(apperr.Invalid, "Please complete the reCAPTCHA")), wantCode: 1, wantOut: "Please complete the reCAPTCHA"},
		{name: "server error", err: during("listing articles", apperr.Status(500, "GET x failed", "")), wantCode: 1, wantOut: "Server error while listing articles"},
		{name: "plain error", err: assert.AnError, wantCode: 1, wantOut: "assert.AnError general error for testing"},
		{name: "local failure with action", err: during("saving settings", errors.New("disk full")), wantCode: 1, wantOut: "Failed while saving settings: disk full"},
		{name: "secrets masked", err: errors.New("request with Bearer abc.def.ghi failed"), wantCode: 1, wantOut: "Bearer *** failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, report(&buf, tt.err))
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestConfigSetAndShow(t *testing.T) {
	_, err := execute(t, tokenstore.NewMemory(), "", "config", "set", "language", "fr")
	require.NoError(t, err)

	c, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "fr", c.Language)

	out, err := rootExec(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "fr")

	_, err = rootExec(t, "config", "set", "api-url", "not a url")
	assert.Error(t, err)
}

// rootExec runs the root command in the current environment.
func rootExec(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetChanged(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--plain"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPasswordResetConfirm(t *testing.T) {
	srv := fakeBackend(t, "good")

	out, err := execute(t, tokenstore.NewMemory(), "new-password\nnew-password\n", "--api-url", srv.URL, "password", "reset-confirm", "tok-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Password has been reset successfully.")

	_, err = execute(t, tokenstore.NewMemory(), "new-password\nnew-password\n", "--api-url", srv.URL, "password", "reset-confirm", "other")
	var e *apperr.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "The reset link is invalid", e.Message)

	_, err = execute(t, tokenstore.NewMemory(), "new-password\nmismatch\n", "--api-url", srv.URL, "password", "reset-confirm", "tok-1")
	assert.True(t, apperr.Is(err, apperr.Invalid))
}

func TestAccountRename(t *testing.T) {
	srv := fakeBackend(t, "good")

	_, err := execute(t, tokenstore.NewMemory(), "secret\n", "--api-url", srv.URL, "account", "rename", "lovelace")
	var redirect *guard.RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, guard.SignIn, redirect.To)

	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "good"))
	out, err := execute(t, store, "secret\n", "--api-url", srv.URL, "account", "rename", "lovelace")
	require.NoError(t, err)
	assert.Contains(t, out, "Username changed successfully.")
}
