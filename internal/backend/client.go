// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the HTTP client every quill component uses to reach the
// blog backend. The client applies cross-cutting auth concerns uniformly: the stored
// access token is attached to every outbound request, and a 401 from any endpoint
// invalidates the stored token before the error reaches the caller.
//
// Interceptors are installed at construction time and run on every request in
// registration order; there is no per-call way to bypass them.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	apperr "quill/cli/internal/errors"
	"quill/cli/internal/logging"
	"quill/cli/internal/tokenstore"
)

// DefaultBaseURL is the local development origin of the blog backend.
const DefaultBaseURL = "http://127.0.0.1:8000/"

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 4 << 10

// Client dispatches JSON requests against the backend REST surface.
type Client struct {
	baseURL   string
	store     tokenstore.Store
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	onUnauthorizedHooks  []func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.client.Transport = rt }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRequestInterceptor appends a request interceptor. It runs after the
// built-in bearer interceptor.
func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(c *Client) { c.requestInterceptors = append(c.requestInterceptors, i) }
}

// WithResponseInterceptor appends a response interceptor. It runs after the
// built-in unauthorized interceptor.
func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(c *Client) { c.responseInterceptors = append(c.responseInterceptors, i) }
}

// WithUnauthorizedHook registers fn to run each time OnUnauthorized fires,
// after the access token has been removed.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorizedHooks = append(c.onUnauthorizedHooks, fn) }
}

// New creates a client for baseURL reading tokens from store.
// An empty baseURL selects DefaultBaseURL.
func New(baseURL string, store tokenstore.Store, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  logging.Discard(),
	}
	c.requestInterceptors = []RequestInterceptor{c.injectBearer}
	c.responseInterceptors = []ResponseInterceptor{c.handleUnauthorized}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Store returns the token store the client reads from.
func (c *Client) Store() tokenstore.Store { return c.store }

// OnUnauthorized invalidates the current session by removing the stored access
// token. The response interceptor calls it synchronously for every 401, before
// the error is returned to the caller.
func (c *Client) OnUnauthorized() {
	if c.store != nil {
		if err := c.store.Remove(tokenstore.AccessTokenKey); err != nil {
			c.logger.Warn("failed to remove access token", "error", err)
		} else {
			c.logger.Debug("invalid or expired token, access token removed")
		}
	}
	for _, fn := range c.onUnauthorizedHooks {
		fn()
	}
}

// Get performs GET path and decodes the JSON response into out when non-nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, http.MethodGet, path, nil, out)
	return err
}

// Post performs POST path with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	_, err := c.Do(ctx, http.MethodPost, path, in, out)
	return err
}

// Delete performs DELETE path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// Head performs a body-less HEAD request and returns the status code.
func (c *Client) Head(ctx context.Context, path string) (int, error) {
	return c.Do(ctx, http.MethodHead, path, nil, nil)
}

// Do sends a request with the given method and JSON body and returns the
// response status. Non-2xx statuses and transport failures are returned as
// *errors.E after every response interceptor has run.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) (int, error) {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return 0, err
	}
	for _, intercept := range c.requestInterceptors {
		if err := intercept(req); err != nil {
			return 0, fmt.Errorf("request interceptor: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", logging.Mask(path), "error", logging.Mask(err.Error()))
		return 0, c.intercept(nil, classifyTransportError(method, path, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", method,
		"path", logging.Mask(path),
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := apperr.Status(resp.StatusCode, fmt.Sprintf("%s %s failed", method, path), strings.TrimSpace(string(b)))
		return resp.StatusCode, c.intercept(resp, statusErr)
	}

	if err := c.intercept(resp, nil); err != nil {
		return resp.StatusCode, err
	}
	if out != nil && method != http.MethodHead {
		if err := decodeBody(resp.Body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) intercept(resp *http.Response, err error) error {
	for _, intercept := range c.responseInterceptors {
		err = intercept(resp, err)
	}
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// url joins path onto the base URL. Paths are always relative to the backend
// so the bearer token never leaves its origin.
func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// decodeBody decodes JSON into out; an empty body leaves out untouched.
func decodeBody(r io.Reader, out any) error {
	err := json.NewDecoder(r).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// classifyTransportError maps a failure with no response into Timeout or Network.
func classifyTransportError(method, path string, err error) error {
	msg := fmt.Sprintf("%s %s", method, path)
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.Timeout, msg, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Wrap(apperr.Timeout, msg, err)
	}
	return apperr.Wrap(apperr.Network, msg, err)
}
