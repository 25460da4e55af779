// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores() map[string]func() Store {
	return map[string]func() Store{
		"memory":  func() Store { return NewMemory() },
		"keyring": func() Store { return NewKeyring(keyring.NewArrayKeyring(nil)) },
	}
}

func TestStoreContract(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			_, err := s.Get(AccessTokenKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(AccessTokenKey, "tok-a"))
			v, err := s.Get(AccessTokenKey)
			require.NoError(t, err)
			assert.Equal(t, "tok-a", v)

			require.NoError(t, s.Set(AccessTokenKey, "tok-b"))
			v, err = s.Get(AccessTokenKey)
			require.NoError(t, err)
			assert.Equal(t, "tok-b", v, "last write wins")

			require.NoError(t, s.Remove(AccessTokenKey))
			_, err = s.Get(AccessTokenKey)
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Remove(AccessTokenKey), "removing an absent key is not an error")
		})
	}
}

func TestEmptyValueIsAbsent(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			require.NoError(t, s.Set(RefreshTokenKey, ""))
			_, err := s.Get(RefreshTokenKey)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSaveTokensAndClear(t *testing.T) {
	s := NewMemory()

	require.NoError(t, SaveTokens(s, "access-1", "refresh-1"))
	assert.Equal(t, "access-1", AccessToken(s))
	assert.Equal(t, "refresh-1", RefreshToken(s))

	// a pair without refresh keeps the previous refresh token
	require.NoError(t, SaveTokens(s, "access-2", ""))
	assert.Equal(t, "access-2", AccessToken(s))
	assert.Equal(t, "refresh-1", RefreshToken(s))

	assert.Error(t, SaveTokens(s, "", "refresh-2"))

	require.NoError(t, Clear(s))
	assert.Empty(t, AccessToken(s))
	assert.Empty(t, RefreshToken(s))
}

func TestAccessTokenNilStore(t *testing.T) {
	assert.Empty(t, AccessToken(nil))
}

func TestMemoryConcurrentAccess(t *testing.T) {
	s := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(AccessTokenKey, "tok")
		}()
		go func() {
			defer wg.Done()
			_ = s.Remove(AccessTokenKey)
		}()
	}
	wg.Wait()

	_, err := s.Get(AccessTokenKey)
	if err != nil {
		assert.ErrorIs(t, err, ErrNotFound)
	}
}
