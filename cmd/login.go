// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"quill/cli/internal/auth"
	"quill/cli/internal/guard"
	"quill/cli/internal/terminal"
)

var loginFlags struct {
	email   string
	google  bool
	idToken string
}

// loginCmd signs in with email and password, or with Google.
// It only runs for guests: a valid stored session short-circuits to a notice.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password or with Google",
	Long: `The login command signs you in to the blog backend and stores the issued
tokens in the OS keychain.

By default it prompts for email and password. With --google it opens the
browser for Google sign-in and exchanges the resulting ID token with the
backend; --id-token skips the browser when you already have one.

If the stored session is still valid, nothing is changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		return a.guard(guard.RequireGuest).Run(cmd.Context(), func(ctx context.Context) error {
			if err := signIn(ctx, a); err != nil {
				return err
			}
			showLoginGreeting(ctx, a)
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginFlags.email, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginFlags.google, "google", false, "Sign in with Google in the browser")
	loginCmd.Flags().StringVar(&loginFlags.idToken, "id-token", "", "Sign in with an existing Google ID token")
	loginCmd.MarkFlagsMutuallyExclusive("email", "google", "id-token")
	rootCmd.AddCommand(loginCmd)
}

func signIn(ctx context.Context, a *app) error {
	switch {
	case loginFlags.idToken != "":
		return during("signing in with Google", a.accounts.GoogleLogin(ctx, loginFlags.idToken))
	case loginFlags.google:
		flow, err := auth.NewFlow(auth.OAuthConfig{
			ClientID:     a.cfg.OAuth.ClientID,
			ClientSecret: a.cfg.OAuth.ClientSecret,
		}, a.logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.errOut, "Opening your browser for Google sign-in...")
		flowCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		idToken, err := flow.IDToken(flowCtx)
		if err != nil {
			return err
		}
		return during("signing in with Google", a.accounts.GoogleLogin(ctx, idToken))
	default:
		email, err := a.prompter.LineOr(loginFlags.email, "Email: ")
		if err != nil {
			return err
		}
		password, err := a.prompter.Secret("Password: ")
		if err != nil {
			return err
		}
		if !a.flags.plain && terminal.IsInteractive() {
			terminal.ClearPreviousLines(len("Password: "))
		}
		return during("signing in", a.accounts.Login(ctx, email, password))
	}
}

// showLoginGreeting displays a friendly greeting with the account name.
func showLoginGreeting(ctx context.Context, a *app) {
	if u, err := a.accounts.UserInfo(ctx); err == nil {
		fmt.Fprintln(a.out, getRandomLoginGreeting(u.DisplayName()))
		return
	}
	if c, err := a.accounts.Claims(); err == nil && c.UserID != "" {
		fmt.Fprintln(a.out, getRandomLoginGreeting("user "+c.UserID))
		return
	}
	success(a.out, "Login successful!")
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier.
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to write?",
		"💫 Successfully signed in as %s",
		"✅ Signed in. Hi %s!",
	}
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], identifier)
}

// writeNotSignedIn prints the standard hint for commands that need a session.
func writeNotSignedIn(w io.Writer) {
	fmt.Fprintln(w, "🔒 You're not signed in.")
	fmt.Fprintln(w, "   Run `quill login` to get started.")
}
