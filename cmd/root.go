// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the quill blog client.
// It implements subcommands for reading and writing articles, commenting,
// and managing the signed-in account using the Cobra CLI framework. Commands
// that require a session, or that only make sense without one, are wrapped
// in a route guard that probes the backend once before running.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"quill/cli/internal/guard"
	"quill/cli/internal/httperrors"
	"quill/cli/internal/logging"
)

var (
	showVersion bool
	current     *app
	// baseDeps is empty in production; tests inject stores and prompts here.
	baseDeps appDeps
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "quill",
	Short:         "Quill CLI for the multilingual blog",
	Long:          `Quill is a command-line client for the blog backend: browse and publish articles, comment, and manage your account.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsWiring(cmd) {
			return nil
		}
		deps := baseDeps
		deps.out, deps.errOut = cmd.OutOrStdout(), cmd.ErrOrStderr()
		a, err := newApp(flags, deps)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd.Context(), current)
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// A redirect to the home page is a successful outcome; everything else that
// returns an error exits 1.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "Blog backend base URL (overrides QUILL_API_URL and config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "Keep tokens in memory only; nothing is written to the keychain")
	pf.BoolVar(&flags.plain, "plain", false, "Disable colors and spinners")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend information")
}

// skipsWiring reports whether cmd runs without configuration or a token
// store, like help, shell completion and the config editor.
func skipsWiring(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "config", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// actionError records what the user was doing when err happened.
type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string { return e.action + ": " + e.err.Error() }
func (e *actionError) Unwrap() error { return e.err }

// during annotates err with the action in progress, for error reporting.
func during(action string, err error) error {
	if err == nil {
		return nil
	}
	return &actionError{action: action, err: err}
}

// report prints err for the user and returns the process exit code.
func report(w io.Writer, err error) int {
	var redirect *guard.RedirectError
	if errors.As(err, &redirect) {
		if redirect.To == guard.Home {
			pterm.Fprintln(w, "You are already signed in. Run `quill logout` to switch accounts.")
			return 0
		}
		pterm.Fprintln(w, "🔒 You need to sign in first.")
		pterm.Fprintln(w, "   Run `quill login` to get started.")
		return 1
	}

	action := "talking to the blog backend"
	var ae *actionError
	if errors.As(err, &ae) {
		action = ae.action
	}
	host := ""
	verbose := logging.Verbose()
	if current != nil {
		host = httperrors.ExtractHostFromURL(current.cfg.APIURL)
		verbose = verbose || current.flags.verbose
	}
	if isBackendError(err) {
		httperrors.Print(w, httperrors.Describe(err, action, host), verbose)
		return 1
	}
	pterm.Fprintln(w, pterm.Red("✗ ")+presentError(err))
	return 1
}

// presentError renders a non-backend failure with secrets masked, naming
// the action when one was recorded.
func presentError(err error) string {
	var ae *actionError
	if errors.As(err, &ae) {
		return "Failed while " + ae.action + ": " + logging.Mask(ae.err.Error())
	}
	return logging.Mask(err.Error())
}
