// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

// printVersion prints the CLI version and whether the configured backend
// currently accepts the stored session.
func printVersion(ctx context.Context, a *app) error {
	fmt.Fprintf(a.out, "quill %s\n", Version)
	fmt.Fprintf(a.out, "backend %s\n", a.client.BaseURL())
	state := "signed out"
	if a.probe.Authenticated(ctx) {
		state = "signed in"
	}
	fmt.Fprintf(a.out, "session %s\n", state)
	return nil
}
