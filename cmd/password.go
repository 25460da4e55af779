// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	apperr "quill/cli/internal/errors"
	"quill/cli/internal/guard"
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Reset or change your password",
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset <email>",
	Short: "Email a password reset link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		msg, err := a.accounts.RequestPasswordReset(cmd.Context(), args[0])
		if err != nil {
			return during("requesting a password reset", err)
		}
		success(a.out, "%s", msg)
		return nil
	},
}

var passwordChangeCmd = &cobra.Command{
	Use:   "change",
	Short: "Change the password of the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		return a.guard(guard.RequireAuthenticated).Run(cmd.Context(), func(ctx context.Context) error {
			oldPw, err := a.prompter.Secret("Current password: ")
			if err != nil {
				return err
			}
			newPw, err := a.prompter.Secret("New password: ")
			if err != nil {
				return err
			}
			confirm, err := a.prompter.Secret("Confirm new password: ")
			if err != nil {
				return err
			}
			if newPw != confirm {
				return apperr.New(apperr.Invalid, "new passwords do not match")
			}
			msg, err := a.accounts.ChangePassword(ctx, oldPw, newPw)
			if err != nil {
				return during("changing your password", err)
			}
			success(a.out, "%s", msg)
			return nil
		})
	},
}

// passwordResetConfirmCmd finishes a reset with the token from the email.
// It needs no session, so it is not guarded.
var passwordResetConfirmCmd = &cobra.Command{
	Use:   "reset-confirm <token>",
	Short: "Set a new password with the token from a reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		pw, err := a.prompter.Secret("New password: ")
		if err != nil {
			return err
		}
		confirm, err := a.prompter.Secret("Confirm new password: ")
		if err != nil {
			return err
		}
		if pw != confirm {
			return apperr.New(apperr.Invalid, "new passwords do not match")
		}
		msg, err := a.accounts.ConfirmPasswordReset(cmd.Context(), args[0], pw)
		if err != nil {
			return during("resetting your password", err)
		}
		success(a.out, "%s", msg)
		pterm.Fprintln(a.out, "   Run `quill login` to sign in with the new password.")
		return nil
	},
}

func init() {
	passwordCmd.AddCommand(passwordResetCmd)
	passwordCmd.AddCommand(passwordResetConfirmCmd)
	passwordCmd.AddCommand(passwordChangeCmd)
	rootCmd.AddCommand(passwordCmd)
}
