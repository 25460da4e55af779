// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"quill/cli/internal/guard"
)

// whoamiCmd shows the signed-in account. It is guarded, so an expired or
// missing session redirects to sign-in without printing account data.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		return a.guard(guard.RequireAuthenticated).Run(cmd.Context(), func(ctx context.Context) error {
			u, err := a.accounts.UserInfo(ctx)
			if err != nil {
				return during("loading your account", err)
			}
			rows := [][]string{
				{"Field", "Value"},
				{"Username", u.Username},
				{"Email", u.Email},
				{"Role", u.Role},
				{"Verified", fmt.Sprint(u.IsEmailVerified)},
			}
			if c, err := a.accounts.Claims(); err == nil && !c.ExpiresAt.IsZero() {
				rows = append(rows, []string{"Session expires", formatTime(c.ExpiresAt)})
			}
			return renderTable(a.out, rows)
		})
	},
}

// statusCmd reports whether the stored session is accepted, without guarding.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether you are signed in",
	Long: `The status command probes the backend once with the stored token.
A 200 from the identity endpoint means signed in; anything else, including a
network failure, means signed out. A rejected token is removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		hadToken := a.accounts.SignedIn()
		if a.probe.Authenticated(cmd.Context()) {
			msg := "Signed in"
			if p, ok := a.accounts.CachedProfile(); ok {
				msg += " as " + p.Email
			}
			if c, err := a.accounts.Claims(); err == nil && !c.ExpiresAt.IsZero() {
				msg += fmt.Sprintf(" (token expires in %s)", time.Until(c.ExpiresAt).Round(time.Minute))
			}
			success(a.out, "%s", msg)
			return nil
		}
		if hadToken && !a.accounts.SignedIn() {
			pterm.Fprintln(a.out, "Your session has expired and was removed.")
		}
		writeNotSignedIn(a.out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(statusCmd)
}
