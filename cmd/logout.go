// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

// logoutCmd clears the stored session. The remote blacklist call is
// best-effort; local tokens are always removed.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove saved tokens",
	Long: `The logout command asks the backend to revoke the refresh token (best-effort)
and then removes, regardless of the backend response:
- the access and refresh tokens from the OS keychain
- the cached account profile`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.accounts.Logout(cmd.Context()); err != nil {
			return during("signing out", err)
		}
		success(a.out, "Signed out. Tokens have been removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
