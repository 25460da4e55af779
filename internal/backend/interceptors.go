// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"

	apperr "quill/cli/internal/errors"
	"quill/cli/internal/tokenstore"
)

// RequestInterceptor inspects or mutates an outbound request before dispatch.
// Returning an error aborts the request.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes the outcome of a request. resp is nil when no
// response was received; err is nil on success. The returned error replaces
// err for the next interceptor and, finally, the caller.
type ResponseInterceptor func(resp *http.Response, err error) error

// injectBearer attaches the stored access token. The token is read at dispatch
// time so a removal made by a concurrent 401 is honoured by every later request.
// A missing or unreadable token is not an error: the request goes out
// unauthenticated.
func (c *Client) injectBearer(req *http.Request) error {
	if token := tokenstore.AccessToken(c.store); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// handleUnauthorized invalidates the session on any 401 and lets the error
// continue to the caller. No retry and no refresh happen here.
func (c *Client) handleUnauthorized(resp *http.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusUnauthorized {
		c.OnUnauthorized()
	} else if err != nil && apperr.StatusOf(err) == http.StatusUnauthorized {
		c.OnUnauthorized()
	}
	return err
}
