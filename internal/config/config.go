// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; tokens go to the OS keychain.
//
// Values are layered: built-in defaults, then config.json, then environment
// variables (a .env file in the working directory is loaded first and never
// overrides variables already set), then command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"quill/cli/internal/backend"
	"quill/cli/internal/xdg"
)

// Environment variables read by Resolve.
const (
	EnvAPIURL            = "QUILL_API_URL"
	EnvLogLevel          = "QUILL_LOG_LEVEL"
	EnvLanguage          = "QUILL_LANGUAGE"
	EnvOAuthClientID     = "QUILL_OAUTH_CLIENT_ID"
	EnvOAuthClientSecret = "QUILL_OAUTH_CLIENT_SECRET"
	EnvFile              = "QUILL_ENV_FILE"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL   string      `json:"api_url"`
	LogLevel string      `json:"log_level"`
	Language string      `json:"language"`
	OAuth    OAuthConfig `json:"oauth"`
}

// OAuthConfig identifies the desktop OAuth client used for Google sign-in.
// Desktop client secrets are not confidential.
type OAuthConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:   backend.DefaultBaseURL,
		LogLevel: "info",
		Language: "en",
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from p on top of the defaults.
func LoadFile(p string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Defaults(), fmt.Errorf("parse %s: %w", p, err)
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(p, c)
}

// SaveFile writes configuration to p with 0600 permissions.
func SaveFile(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// LoadEnvFile loads variables from QUILL_ENV_FILE, or .env in the working
// directory. Variables already present in the environment win. A missing
// file is not an error.
func LoadEnvFile() error {
	name := os.Getenv(EnvFile)
	if name == "" {
		name = ".env"
	}
	if err := godotenv.Load(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

// ApplyEnv overlays environment variables on c.
func ApplyEnv(c Config) Config {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, EnvAPIURL)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Language, EnvLanguage)
	set(&c.OAuth.ClientID, EnvOAuthClientID)
	set(&c.OAuth.ClientSecret, EnvOAuthClientSecret)
	return c
}

// Overrides are values supplied on the command line; empty fields are ignored.
type Overrides struct {
	APIURL string
}

// Resolve builds the effective configuration: file, environment, flags.
func Resolve(o Overrides) (Config, error) {
	if err := LoadEnvFile(); err != nil {
		return Defaults(), err
	}
	c, err := Load()
	if err != nil {
		return c, err
	}
	c = ApplyEnv(c)
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	return c, c.Validate()
}

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{"api-url", "log-level", "language", "oauth-client-id", "oauth-client-secret"}

// Set assigns one setting by its command-line key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api-url":
		c.APIURL = value
	case "log-level":
		if value != "info" && value != "debug" {
			return fmt.Errorf("log-level must be info or debug, got %q", value)
		}
		c.LogLevel = value
	case "language":
		c.Language = value
	case "oauth-client-id":
		c.OAuth.ClientID = value
	case "oauth-client-secret":
		c.OAuth.ClientSecret = value
	default:
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

// Get returns one setting by its command-line key.
func (c Config) Get(key string) (string, bool) {
	switch key {
	case "api-url":
		return c.APIURL, true
	case "log-level":
		return c.LogLevel, true
	case "language":
		return c.Language, true
	case "oauth-client-id":
		return c.OAuth.ClientID, true
	case "oauth-client-secret":
		return c.OAuth.ClientSecret, true
	}
	return "", false
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api url %q: must be an absolute http(s) URL", c.APIURL)
	}
	return nil
}
