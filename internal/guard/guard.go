// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard decides whether a command may run based on session state.
//
// A Guard mounts once per command invocation: it starts exactly one session
// probe and exposes the resulting decision. While the probe is in flight the
// decision is always the placeholder, so protected output is never produced
// and no redirect is issued before the state is known.
package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"quill/cli/internal/logging"
	"quill/cli/internal/session"
)

// ErrUnmounted is returned by Wait after the mount has been discarded.
var ErrUnmounted = errors.New("guard unmounted")

// RedirectError is returned by Run when the policy sends the user elsewhere.
type RedirectError struct {
	To     string
	Policy Policy
}

func (r *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s", r.To)
}

// Guard applies a Policy to the result of a session probe.
type Guard struct {
	prober      session.Prober
	policy      Policy
	placeholder Placeholder
	logger      *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithPlaceholder sets the strategy rendered while the probe is pending.
func WithPlaceholder(p Placeholder) Option {
	return func(g *Guard) {
		if p != nil {
			g.placeholder = p
		}
	}
}

// WithLogger sets the guard logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a guard enforcing policy with prober as the source of truth.
func New(prober session.Prober, policy Policy, opts ...Option) *Guard {
	g := &Guard{
		prober:      prober,
		policy:      policy,
		placeholder: None{},
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Policy returns the guard policy.
func (g *Guard) Policy() Policy { return g.policy }

// Mount starts the single probe for this mount and returns immediately.
// The probe is not tied to ctx cancellation; only the client timeout bounds it.
func (g *Guard) Mount(ctx context.Context) *Mount {
	m := &Mount{
		policy:    g.policy,
		machine:   NewMachine(),
		unmounted: make(chan struct{}),
	}
	probeCtx := context.WithoutCancel(ctx)
	go func() {
		authenticated := g.prober.Authenticated(probeCtx)
		if !m.machine.Resolve(authenticated) {
			g.logger.Debug("probe result discarded after unmount", "policy", g.policy.String())
			return
		}
		g.logger.Debug("session resolved", "policy", g.policy.String(), "state", m.machine.State().String())
	}()
	return m
}

// Run mounts the guard, shows the placeholder while pending, and then either
// runs body or returns a *RedirectError. The mount is always unmounted before
// Run returns.
func (g *Guard) Run(ctx context.Context, body func(ctx context.Context) error) error {
	m := g.Mount(ctx)
	defer m.Unmount()

	hide := func() {}
	if m.Decision().Action == ShowPlaceholder {
		hide = g.placeholder.Show()
	}
	d, err := m.Wait(ctx)
	hide()
	if err != nil {
		return err
	}

	switch d.Action {
	case Render:
		return body(ctx)
	case Redirect:
		return &RedirectError{To: d.To, Policy: g.policy}
	default:
		return fmt.Errorf("unexpected guard decision %s", d)
	}
}

// Mount is one guard instance bound to one probe.
type Mount struct {
	policy  Policy
	machine *Machine

	once      sync.Once
	unmounted chan struct{}
}

// State returns the session state as seen by this mount.
func (m *Mount) State() State { return m.machine.State() }

// Decision returns the policy decision for the current state.
func (m *Mount) Decision() Decision { return m.policy.Decide(m.machine.State()) }

// Wait blocks until the probe resolves, the mount is discarded, or ctx ends.
func (m *Mount) Wait(ctx context.Context) (Decision, error) {
	select {
	case <-m.machine.Done():
		return m.Decision(), nil
	case <-m.unmounted:
		return Decision{Action: ShowPlaceholder}, ErrUnmounted
	case <-ctx.Done():
		return Decision{Action: ShowPlaceholder}, ctx.Err()
	}
}

// Unmount discards the eventual probe result. The in-flight probe is left to
// finish on its own.
func (m *Mount) Unmount() {
	m.once.Do(func() {
		m.machine.Discard()
		close(m.unmounted)
	})
}
