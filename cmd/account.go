// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"quill/cli/internal/guard"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the signed-in account",
}

// accountRenameCmd changes the username. The backend asks for the current
// password as confirmation.
var accountRenameCmd = &cobra.Command{
	Use:   "rename <new-username>",
	Short: "Change your username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		return a.guard(guard.RequireAuthenticated).Run(cmd.Context(), func(ctx context.Context) error {
			pw, err := a.prompter.Secret("Password: ")
			if err != nil {
				return err
			}
			msg, err := a.accounts.ChangeUsername(ctx, args[0], pw)
			if err != nil {
				return during("changing your username", err)
			}
			success(a.out, "%s", msg)
			if u, err := a.accounts.UserInfo(ctx); err == nil {
				pterm.Fprintln(a.out, "   You are now "+u.DisplayName()+".")
			}
			return nil
		})
	},
}

func init() {
	accountCmd.AddCommand(accountRenameCmd)
	rootCmd.AddCommand(accountCmd)
}
