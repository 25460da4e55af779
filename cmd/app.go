// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pterm/pterm"

	"quill/cli/internal/auth"
	"quill/cli/internal/backend"
	"quill/cli/internal/blog"
	"quill/cli/internal/config"
	"quill/cli/internal/guard"
	"quill/cli/internal/logging"
	"quill/cli/internal/session"
	"quill/cli/internal/terminal"
	"quill/cli/internal/tokenstore"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	apiURL    string
	verbose   bool
	ephemeral bool
	plain     bool
}

var flags globalFlags

// app is the wired object graph for one invocation.
type app struct {
	cfg      config.Config
	flags    globalFlags
	logger   *slog.Logger
	store    tokenstore.Store
	client   *backend.Client
	accounts *auth.Service
	articles *blog.Gateway
	probe    *session.Probe
	prompter *terminal.Prompter
	out      io.Writer
	errOut   io.Writer
}

// appDeps lets tests replace the process-wide pieces.
type appDeps struct {
	store    tokenstore.Store
	profile  *auth.ProfileCache
	prompter *terminal.Prompter
	out      io.Writer
	errOut   io.Writer
}

// newApp resolves configuration and wires the client, gateways and probe.
func newApp(f globalFlags, deps appDeps) (*app, error) {
	cfg, err := config.Resolve(config.Overrides{APIURL: f.apiURL})
	if err != nil {
		return nil, err
	}

	if deps.errOut == nil {
		deps.errOut = os.Stderr
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}
	if f.plain {
		pterm.DisableStyling()
	}
	logger := logging.New(deps.errOut, f.verbose || cfg.LogLevel == "debug")

	store := deps.store
	if store == nil {
		if f.ephemeral {
			store = tokenstore.NewMemory()
		} else if store, err = tokenstore.Default(); err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
	}

	profile := deps.profile
	if profile == nil && !f.ephemeral {
		if profile, err = auth.DefaultProfileCache(); err != nil {
			logger.Debug("profile cache unavailable", "error", err)
			profile = nil
		}
	}

	client := backend.New(cfg.APIURL, store,
		backend.WithLogger(logger),
		backend.WithUserAgent("quill/"+Version),
	)

	opts := []auth.Option{auth.WithLogger(logger)}
	if profile != nil {
		opts = append(opts, auth.WithProfileCache(profile))
	}

	prompter := deps.prompter
	if prompter == nil {
		prompter = terminal.NewPrompter()
	}

	return &app{
		cfg:      cfg,
		flags:    f,
		logger:   logger,
		store:    store,
		client:   client,
		accounts: auth.NewService(client, store, opts...),
		articles: blog.NewGateway(client),
		probe:    session.NewProbe(client, logger),
		prompter: prompter,
		out:      deps.out,
		errOut:   deps.errOut,
	}, nil
}

// guard builds a route guard for policy with the placeholder suited to the
// current output.
func (a *app) guard(policy guard.Policy) *guard.Guard {
	return guard.New(a.probe, policy,
		guard.WithPlaceholder(a.placeholder()),
		guard.WithLogger(a.logger),
	)
}

// placeholder picks what is shown while the session check is pending:
// nothing when output is piped, a text line with --plain, a spinner otherwise.
func (a *app) placeholder() guard.Placeholder {
	return placeholderFor(a.flags.plain, terminal.IsInteractive(), a.errOut)
}

func placeholderFor(plain, interactive bool, w io.Writer) guard.Placeholder {
	switch {
	case !interactive:
		return guard.None{}
	case plain:
		return guard.Text{W: w}
	default:
		return guard.Spinner{W: w, Text: "Checking session"}
	}
}
