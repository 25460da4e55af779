// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/cli/internal/backend"
	"quill/cli/internal/tokenstore"
)

func TestProbeStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "ok", status: http.StatusOK, want: true},
		{name: "no content", status: http.StatusNoContent, want: false},
		{name: "unauthorized", status: http.StatusUnauthorized, want: false},
		{name: "forbidden", status: http.StatusForbidden, want: false},
		{name: "server error", status: http.StatusInternalServerError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "/account/userinfo/", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(srv.Close)

			p := NewProbe(backend.New(srv.URL, tokenstore.NewMemory()), nil)
			assert.Equal(t, tt.want, p.Authenticated(context.Background()))
		})
	}
}

func TestProbeUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewProbe(backend.New(url, tokenstore.NewMemory()), nil)
	assert.False(t, p.Authenticated(context.Background()))
}

func TestProbeSendsStoredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemory()
	p := NewProbe(backend.New(srv.URL, store), nil)
	assert.False(t, p.Authenticated(context.Background()), "no token")

	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "good"))
	assert.True(t, p.Authenticated(context.Background()))

	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "expired"))
	assert.False(t, p.Authenticated(context.Background()))
	assert.Empty(t, tokenstore.AccessToken(store), "401 on probe invalidates the token")
}

func TestFuncAdapter(t *testing.T) {
	var p Prober = Func(func(context.Context) bool { return true })
	assert.True(t, p.Authenticated(context.Background()))
}
