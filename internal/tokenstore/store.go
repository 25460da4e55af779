// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tokenstore persists the bearer credentials used by the quill CLI.
//
// A Store is a plain key/value contract (Set/Get/Remove) with no expiry tracking
// and no encryption of its own. The default implementation lives in the OS
// keychain so tokens survive across invocations; Memory implements the same
// contract for tests and for ephemeral sessions.
//
// Every implementation is safe for concurrent use: a Remove issued by the
// backend client's unauthorized path is visible to the very next Get from any
// goroutine.
package tokenstore

import (
	"errors"
	"strings"
)

// Keys used for the two session values.
const (
	AccessTokenKey  = "authToken"
	RefreshTokenKey = "refreshToken"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("token not found")

// Store is durable, process-wide key/value storage for session tokens.
type Store interface {
	Set(key, value string) error
	// Get returns ErrNotFound when the key is absent or empty.
	Get(key string) (string, error)
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// AccessToken returns the stored access token, or "" when absent or unreadable.
func AccessToken(s Store) string {
	return lookup(s, AccessTokenKey)
}

// RefreshToken returns the stored refresh token, or "" when absent or unreadable.
func RefreshToken(s Store) string {
	return lookup(s, RefreshTokenKey)
}

func lookup(s Store, key string) string {
	if s == nil {
		return ""
	}
	v, err := s.Get(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// SaveTokens stores a freshly issued token pair. An empty refresh token leaves
// the previous one untouched.
func SaveTokens(s Store, access, refresh string) error {
	if access == "" {
		return errors.New("empty access token")
	}
	if err := s.Set(AccessTokenKey, access); err != nil {
		return err
	}
	if refresh != "" {
		if err := s.Set(RefreshTokenKey, refresh); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes both tokens.
func Clear(s Store) error {
	return errors.Join(s.Remove(AccessTokenKey), s.Remove(RefreshTokenKey))
}
