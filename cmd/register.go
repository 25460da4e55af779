// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"quill/cli/internal/auth"
	apperr "quill/cli/internal/errors"
	"quill/cli/internal/guard"
)

var registerFlags struct {
	username  string
	email     string
	role      string
	recaptcha string
}

// registerCmd creates an account. Guests only.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `The register command creates an account and asks the backend to email a
verification link. The account stays inactive until it is verified with
'quill verify <token>'.

The backend requires a reCAPTCHA response; pass the token obtained from the
sign-up page with --recaptcha.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		return a.guard(guard.RequireGuest).Run(cmd.Context(), func(ctx context.Context) error {
			role := strings.ToLower(strings.TrimSpace(registerFlags.role))
			if role != "" && !slices.Contains(auth.Roles, role) {
				return apperr.New(apperr.Invalid, "role must be one of "+strings.Join(auth.Roles, ", "))
			}
			username, err := a.prompter.LineOr(registerFlags.username, "Username: ")
			if err != nil {
				return err
			}
			email, err := a.prompter.LineOr(registerFlags.email, "Email: ")
			if err != nil {
				return err
			}
			pw1, err := a.prompter.Secret("Password: ")
			if err != nil {
				return err
			}
			pw2, err := a.prompter.Secret("Confirm password: ")
			if err != nil {
				return err
			}

			msg, err := a.accounts.Register(ctx, auth.Registration{
				Username:  username,
				Email:     email,
				Password1: pw1,
				Password2: pw2,
				Role:      role,
				Recaptcha: registerFlags.recaptcha,
			})
			if err != nil {
				return during("registering", err)
			}
			success(a.out, "%s", msg)
			return nil
		})
	},
}

// verifyCmd activates an account from the emailed token.
var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify your email address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		msg, err := a.accounts.VerifyEmail(cmd.Context(), args[0])
		if err != nil {
			return during("verifying your email", err)
		}
		success(a.out, "%s", msg)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerFlags.username, "username", "", "Username (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerFlags.email, "email", "", "Email (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerFlags.role, "role", "", "Account role: admin, blogger or guest (default blogger)")
	registerCmd.Flags().StringVar(&registerFlags.recaptcha, "recaptcha", "", "reCAPTCHA response token")
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(verifyCmd)
}
