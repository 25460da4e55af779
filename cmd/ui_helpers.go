// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pterm/pterm"

	apperr "quill/cli/internal/errors"
)

// isBackendError reports whether err carries a client error kind.
func isBackendError(err error) bool {
	return apperr.KindOf(err) != ""
}

// success prints a green check line.
func success(w io.Writer, format string, args ...any) {
	pterm.Fprintln(w, pterm.Green("✓ ")+fmt.Sprintf(format, args...))
}

// renderTable prints rows with the first row as header.
func renderTable(w io.Writer, rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(w, out)
	return nil
}

// parseID parses a positive numeric id argument.
func parseID(kind, s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.Invalid, fmt.Sprintf("%s id must be a positive number, got %q", kind, s))
	}
	return id, nil
}

// formatTime renders t as a short local timestamp, or "-" when unset.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens s to n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
