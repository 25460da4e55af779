// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
)

// EnvVerbose enables debug logging when set to "1".
const EnvVerbose = "QUILL_VERBOSE"

// Verbose reports whether debug logging was requested through the environment.
func Verbose() bool {
	return os.Getenv(EnvVerbose) == "1"
}

// New builds a pterm-backed slog logger writing to w and installs it as the
// process default. Commands pass stderr so output on stdout stays clean.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := pterm.LogLevelInfo
	if verbose || Verbose() {
		level = pterm.LogLevelDebug
	}
	pl := pterm.DefaultLogger.WithLevel(level).WithWriter(w)
	logger := slog.New(pterm.NewSlogHandler(pl))
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything; used when no logger is injected.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
