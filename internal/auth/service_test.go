// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/cli/internal/backend"
	apperr "quill/cli/internal/errors"
	"quill/cli/internal/tokenstore"
)

func newService(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Service, tokenstore.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := tokenstore.NewMemory()
	return NewService(backend.New(srv.URL, store), store, opts...), store
}

func TestLoginStoresTokens(t *testing.T) {
	svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/login/", r.URL.Path)
		var in loginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, loginRequest{Email: "ada@example.com", Password: "secret"}, in)
		_, _ = w.Write([]byte(`{"refresh":"r-1","access":"a-1"}`))
	})

	require.NoError(t, svc.Login(context.Background(), " ada@example.com ", "secret"))
	assert.Equal(t, "a-1", tokenstore.AccessToken(store))
	assert.Equal(t, "r-1", tokenstore.RefreshToken(store))
	assert.True(t, svc.SignedIn())
}

func TestLoginRejected(t *testing.T) {
	svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Incorrect Credentials"}`))
	})

	err := svc.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Invalid))
	var e *apperr.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Incorrect Credentials", e.Message)
	assert.False(t, svc.SignedIn())
	assert.Empty(t, tokenstore.RefreshToken(store))
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	assert.True(t, apperr.Is(svc.Login(context.Background(), "", "x"), apperr.Invalid))
	assert.True(t, apperr.Is(svc.Login(context.Background(), "a@b.c", ""), apperr.Invalid))
}

func TestGoogleLogin(t *testing.T) {
	svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/google-login/", r.URL.Path)
		var in googleLoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "id-token", in.Token)
		_, _ = w.Write([]byte(`{"refresh":"r-2","access":"a-2"}`))
	})

	require.NoError(t, svc.GoogleLogin(context.Background(), "id-token"))
	assert.Equal(t, "a-2", tokenstore.AccessToken(store))
}

func TestGoogleLoginInvalidToken(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	})
	err := svc.GoogleLogin(context.Background(), "bogus")
	var e *apperr.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Invalid token", e.Message)
}

func TestUserInfoUpdatesProfileCache(t *testing.T) {
	cache := NewProfileCache(filepath.Join(t.TempDir(), "profile.json"))
	svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer a-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":3,"username":"ada","email":"ada@example.com","role":"blogger","is_email_verified":true}`))
	}, WithProfileCache(cache))
	require.NoError(t, store.Set(tokenstore.AccessTokenKey, "a-1"))

	u, err := svc.UserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", u.DisplayName())
	assert.True(t, u.IsEmailVerified)

	p, ok := svc.CachedProfile()
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.False(t, p.UpdatedAt.IsZero())
}

func TestLoginDropsPreviousProfile(t *testing.T) {
	cache := NewProfileCache(filepath.Join(t.TempDir(), "profile.json"))
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/account/login/":
			_, _ = w.Write([]byte(`{"refresh":"r-2","access":"a-2"}`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}, WithProfileCache(cache))
	require.NoError(t, cache.Save(Profile{Username: "previous", Email: "previous@example.com"}))

	require.NoError(t, svc.Login(context.Background(), "ada@example.com", "secret"))
	_, err := svc.UserInfo(context.Background())
	require.Error(t, err)

	_, ok := svc.CachedProfile()
	assert.False(t, ok, "profile of the previous account survived a new login")
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name       string
		access     string
		status     int
		wantRemote bool
	}{
		{name: "remote ok", access: "a", status: http.StatusResetContent, wantRemote: true},
		{name: "remote fails", access: "a", status: http.StatusBadRequest, wantRemote: true},
		{name: "access already gone", access: "", status: http.StatusOK, wantRemote: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var remote bool
			cache := NewProfileCache(filepath.Join(t.TempDir(), "profile.json"))
			svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
				remote = true
				assert.Equal(t, "/account/logout/", r.URL.Path)
				var in logoutRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				assert.Equal(t, "r", in.Refresh)
				w.WriteHeader(tt.status)
			}, WithProfileCache(cache))
			require.NoError(t, store.Set(tokenstore.RefreshTokenKey, "r"))
			if tt.access != "" {
				require.NoError(t, store.Set(tokenstore.AccessTokenKey, tt.access))
			}
			require.NoError(t, cache.Save(Profile{Email: "ada@example.com"}))

			require.NoError(t, svc.Logout(context.Background()))
			assert.Equal(t, tt.wantRemote, remote)
			assert.Empty(t, tokenstore.AccessToken(store))
			assert.Empty(t, tokenstore.RefreshToken(store))
			_, ok := svc.CachedProfile()
			assert.False(t, ok)
		})
	}
}

func TestClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    42,
		"token_type": "access",
		"exp":        exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err = svc.Claims()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, store.Set(tokenstore.AccessTokenKey, signed))
	c, err := svc.Claims()
	require.NoError(t, err)
	assert.Equal(t, "42", c.UserID)
	assert.Equal(t, "access", c.TokenType)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp.Add(time.Second)))
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.Error(t, err)
}
