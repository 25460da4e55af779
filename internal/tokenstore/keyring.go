// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"quill/cli/internal/xdg"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "quill"

// envFilePassword supplies the passphrase for the encrypted file backend,
// the last resort on hosts without a native credential store.
const envFilePassword = "QUILL_KEYRING_PASSWORD"

// Global keyring store instance
var (
	globalStore *Keyring
	globalMu    sync.Mutex
)

// Keyring is a Store backed by the OS credential store.
type Keyring struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewKeyring wraps an already opened keyring.
func NewKeyring(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

// OpenKeyring opens the OS keyring for the quill service.
func OpenKeyring() (*Keyring, error) {
	ring, err := keyring.Open(ringConfig())
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewKeyring(ring), nil
}

// Default returns the process-wide keyring store.
// If opening fails, it will retry on subsequent calls.
func Default() (*Keyring, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalStore != nil {
		return globalStore, nil
	}
	s, err := OpenKeyring()
	if err != nil {
		return nil, err
	}
	globalStore = s
	return globalStore, nil
}

// ringConfig prefers native platform backends and falls back to an
// encrypted file under the XDG state directory.
func ringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName:             ServiceName,
		PassPrefix:              ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
		LibSecretCollectionName: ServiceName,
	}

	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend, keyring.FileBackend}
	case "windows":
		cfg.WinCredPrefix = ServiceName
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend, keyring.FileBackend}
	default:
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}

	if dir, err := xdg.StateDir(); err == nil {
		cfg.FileDir = filepath.Join(dir, "keyring")
	}
	if pw := os.Getenv(envFilePassword); pw != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
	} else {
		cfg.FilePasswordFunc = keyring.TerminalPrompt
	}
	return cfg
}

func (k *Keyring) Set(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (k *Keyring) Get(key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	it, err := k.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

func (k *Keyring) Remove(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	err := k.ring.Remove(key)
	if err == nil || errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
