// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for backend requests.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	apperr "quill/cli/internal/errors"
	"quill/cli/internal/logging"
)

// Description is a rendered explanation of a failure.
type Description struct {
	Title string
	Hints []string
	// Detail is the masked technical message, shown only in verbose mode.
	Detail string
}

// Describe explains err for someone running context against host.
func Describe(err error, context, host string) Description {
	if host == "" {
		host = "the server"
	}
	d := Description{Detail: logging.Mask(err.Error())}

	var e *apperr.E
	if errors.As(err, &e) && e.Kind == apperr.Invalid {
		d.Title = e.Message
		return d
	}

	switch {
	case isTimeoutError(err):
		d.Title = fmt.Sprintf("Connection timeout while %s", context)
		d.Hints = []string{
			"The server took too long to respond. This could mean:",
			"  • Slow internet connection",
			"  • Server is under heavy load",
			"Please try again in a few moments.",
		}
	case apperr.Is(err, apperr.Unauthorized):
		d.Title = fmt.Sprintf("Not signed in while %s", context)
		d.Hints = []string{
			"Your session is missing or has expired and was cleared.",
			"Run `quill login` to sign in again.",
		}
	case apperr.Is(err, apperr.HTTPStatus):
		d = describeStatus(e, context, d)
	case isDNSError(err):
		d.Title = fmt.Sprintf("Cannot resolve server address while %s", context)
		d.Hints = []string{
			fmt.Sprintf("Unable to look up %s. Please check:", host),
			"  • Your internet connection is working",
			"  • The --api-url flag or QUILL_API_URL points at the right host",
		}
	case isConnectionRefusedError(err):
		d.Title = fmt.Sprintf("Connection refused while %s", context)
		d.Hints = []string{
			fmt.Sprintf("Nothing is accepting connections at %s. This could mean:", host),
			"  • The blog backend is not running",
			"  • Wrong server address or port",
		}
	case isSSLError(err):
		d.Title = fmt.Sprintf("Secure connection failed while %s", context)
		d.Hints = []string{
			"Cannot establish a secure HTTPS connection. Try:",
			"  • Check your system date and time",
			"  • Verify network proxy settings",
		}
	default:
		d.Title = fmt.Sprintf("Cannot reach %s while %s", host, context)
		d.Hints = []string{
			"Please check:",
			"  • Your internet connection",
			"  • Firewall settings that might block the request",
		}
	}
	return d
}

func describeStatus(e *apperr.E, context string, d Description) Description {
	switch {
	case e.Status == http.StatusForbidden:
		d.Title = fmt.Sprintf("Permission denied while %s", context)
		d.Hints = []string{"Your account is not allowed to do this."}
	case e.Status == http.StatusNotFound:
		d.Title = fmt.Sprintf("Not found while %s", context)
		d.Hints = []string{"Check the id and try again."}
	case e.Status >= 500:
		d.Title = fmt.Sprintf("Server error while %s", context)
		d.Hints = []string{
			"The blog backend encountered an internal error.",
			"This is not a problem with your setup. Please try again in a few minutes.",
		}
	default:
		d.Title = fmt.Sprintf("Request rejected while %s (status %d)", context, e.Status)
		if e.Body != "" {
			body := logging.Mask(e.Body)
			if len(body) > 200 {
				body = body[:200] + "..."
			}
			d.Hints = []string{body}
		}
	}
	return d
}

// Print writes d to w. The technical detail is included when verbose.
func Print(w io.Writer, d Description, verbose bool) {
	pterm.Fprintln(w, pterm.Red("✗ ")+d.Title)
	if len(d.Hints) > 0 {
		pterm.Fprintln(w)
		for _, h := range d.Hints {
			pterm.Fprintln(w, h)
		}
	}
	if verbose && d.Detail != "" && d.Detail != d.Title {
		pterm.Fprintln(w)
		pterm.Fprintln(w, pterm.Gray("Technical details: "+d.Detail))
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if apperr.Is(err, apperr.Timeout) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
