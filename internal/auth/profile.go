// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"quill/cli/internal/xdg"
)

// Profile is the non-secret account summary cached between runs.
type Profile struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileCache persists a Profile as JSON. Tokens are never written here.
type ProfileCache struct {
	path string
}

// NewProfileCache stores the profile at path.
func NewProfileCache(path string) *ProfileCache {
	return &ProfileCache{path: path}
}

// DefaultProfileCache stores the profile in the XDG state directory.
func DefaultProfileCache() (*ProfileCache, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return NewProfileCache(filepath.Join(dir, "profile.json")), nil
}

// Load reads the cached profile. A missing file yields the zero value.
func (c *ProfileCache) Load() (Profile, error) {
	var p Profile
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Save writes the profile with 0600 permissions.
func (c *ProfileCache) Save(p Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, b, 0o600)
}

// Clear removes the cached profile.
func (c *ProfileCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
