// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Every failure produced by the backend client is one of
// these, so callers can branch on the category instead of parsing strings.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Network indicates that no response was received (DNS, refused, reset).
	Network Kind = "network"
	// Timeout indicates that the request exceeded the client deadline.
	Timeout Kind = "timeout"
	// Unauthorized indicates an HTTP 401 from the backend.
	Unauthorized Kind = "unauthorized"
	// HTTPStatus indicates any other non-2xx HTTP status.
	HTTPStatus Kind = "http_status"
	// Invalid indicates bad input rejected before anything was sent.
	Invalid Kind = "invalid"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code for Unauthorized and HTTPStatus kinds.
	Status int
	// Body holds the trimmed response body when one was received.
	Body string
	Err  error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Status builds an error for a non-2xx response.
func Status(code int, msg string, body string) *E {
	kind := HTTPStatus
	if code == 401 {
		kind = Unauthorized
	}
	return &E{Kind: kind, Message: msg, Status: code, Body: body}
}

// KindOf returns the kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Is reports whether err is an *E of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
