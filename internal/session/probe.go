// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session answers a single question: is the stored token, if any,
// currently accepted by the backend?
package session

import (
	"context"
	"log/slog"
	"net/http"

	"quill/cli/internal/apipaths"
	"quill/cli/internal/logging"
)

// Prober reports whether the current session is authenticated.
type Prober interface {
	Authenticated(ctx context.Context) bool
}

// Header is the slice of the backend client a Probe needs.
type Header interface {
	Head(ctx context.Context, path string) (int, error)
}

// Probe issues a body-less identity check against the userinfo endpoint.
type Probe struct {
	client Header
	logger *slog.Logger
}

// NewProbe creates a probe that dispatches through client, so the bearer
// token and the 401 invalidation path apply to it like to any other request.
func NewProbe(client Header, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Probe{client: client, logger: logger}
}

// Authenticated returns true iff the identity endpoint answers 200.
// Any other status and any transport failure collapse to false; the error
// is logged, never returned.
func (p *Probe) Authenticated(ctx context.Context) bool {
	status, err := p.client.Head(ctx, apipaths.UserInfo)
	if err != nil {
		p.logger.Debug("session probe failed", "error", logging.Mask(err.Error()))
		return false
	}
	return status == http.StatusOK
}

// Func adapts a plain function to Prober.
type Func func(ctx context.Context) bool

func (f Func) Authenticated(ctx context.Context) bool { return f(ctx) }
