// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"sort"
	"strings"

	"github.com/google/uuid"

	"quill/cli/internal/apipaths"
	apperr "quill/cli/internal/errors"
)

// DefaultRole is assigned to new accounts when none is given.
const DefaultRole = "blogger"

// Roles lists the account roles the backend accepts.
var Roles = []string{"admin", "blogger", "guest"}

// Registration is the sign-up form.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
	Role      string `json:"role,omitempty"`
	Recaptcha string `json:"recaptcha"`
}

type messageResponse struct {
	Success string `json:"success"`
	Message string `json:"message"`
}

func (m messageResponse) text(fallback string) string {
	switch {
	case m.Success != "":
		return m.Success
	case m.Message != "":
		return m.Message
	default:
		return fallback
	}
}

// Register creates an inactive account; the backend emails a verification
// link. The CAPTCHA response must be present before anything is sent.
func (s *Service) Register(ctx context.Context, r Registration) (string, error) {
	if strings.TrimSpace(r.Recaptcha) == "" {
		return "", apperr.New(apperr.Invalid, "Please complete the reCAPTCHA")
	}
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" {
		return "", apperr.New(apperr.Invalid, "username is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return "", apperr.New(apperr.Invalid, "a valid email address is required")
	}
	if r.Role == "" {
		r.Role = DefaultRole
	}

	var resp messageResponse
	if err := s.api.Post(ctx, apipaths.Register, r, &resp); err != nil {
		return "", explain(err, "register", registrationMessage)
	}
	return resp.text("Account created. Check your email to verify it."), nil
}

// VerifyEmail activates an account with the token from the verification email.
func (s *Service) VerifyEmail(ctx context.Context, token string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return "", apperr.Wrap(apperr.Invalid, "verification token must be a UUID", err)
	}
	var resp messageResponse
	if err := s.api.Get(ctx, apipaths.VerifyEmail(id.String()), &resp); err != nil {
		return "", explain(err, "verify email", backendMessage)
	}
	return resp.text("Email verified."), nil
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset asks the backend to email a reset link.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.New(apperr.Invalid, "a valid email address is required")
	}
	var resp messageResponse
	if err := s.api.Post(ctx, apipaths.PasswordReset, passwordResetRequest{Email: email}, &resp); err != nil {
		return "", explain(err, "password reset", backendMessage)
	}
	return resp.text("Password reset email sent."), nil
}

// MinPasswordLength is the shortest password the backend accepts on reset.
const MinPasswordLength = 8

type setPasswordRequest struct {
	Password string `json:"password"`
}

// ConfirmPasswordReset sets a new password using the token from a reset
// email. No session is needed.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, password string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperr.New(apperr.Invalid, "reset token is required")
	}
	if len(password) < MinPasswordLength {
		return "", apperr.New(apperr.Invalid, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	var resp messageResponse
	if err := s.api.Post(ctx, apipaths.PasswordResetConfirm(token), setPasswordRequest{Password: password}, &resp); err != nil {
		return "", explain(err, "confirm password reset", backendMessage)
	}
	return resp.text("Password has been reset."), nil
}

type changeUsernameRequest struct {
	NewUsername string `json:"new_username"`
	Password    string `json:"password"`
}

// ChangeUsername renames the signed-in account. The cached profile is
// dropped so the old name is not shown afterwards.
func (s *Service) ChangeUsername(ctx context.Context, newUsername, password string) (string, error) {
	newUsername = strings.TrimSpace(newUsername)
	if len(newUsername) < 3 {
		return "", apperr.New(apperr.Invalid, "username must be at least 3 characters")
	}
	if password == "" {
		return "", apperr.New(apperr.Invalid, "password is required")
	}
	var resp messageResponse
	req := changeUsernameRequest{NewUsername: newUsername, Password: password}
	if err := s.api.Post(ctx, apipaths.ChangeUsername, req, &resp); err != nil {
		return "", explain(err, "change username", backendMessage)
	}
	s.forgetProfile()
	return resp.text("Username changed."), nil
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the password of the signed-in account.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	if oldPassword == "" || newPassword == "" {
		return "", apperr.New(apperr.Invalid, "old and new passwords are required")
	}
	var resp messageResponse
	req := changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	if err := s.api.Post(ctx, apipaths.ChangePassword, req, &resp); err != nil {
		return "", explain(err, "change password", backendMessage)
	}
	return resp.text("Password changed."), nil
}

// explain turns a 400 response into an Invalid error carrying a readable
// message derived from the body. Other errors are wrapped with op.
func explain(err error, op string, interpret func(map[string]any) string) error {
	var e *apperr.E
	if !errors.As(err, &e) || e.Status != http.StatusBadRequest {
		return fmt.Errorf("%s: %w", op, err)
	}
	var body map[string]any
	msg := ""
	if json.Unmarshal([]byte(e.Body), &body) == nil {
		msg = interpret(body)
	}
	if msg == "" {
		msg = "Bad request, please contact support"
	}
	return &apperr.E{Kind: apperr.Invalid, Message: msg, Status: e.Status, Body: e.Body, Err: err}
}

// registrationMessage mirrors how the web client reports sign-up failures.
func registrationMessage(body map[string]any) string {
	if _, ok := body["email"]; ok {
		return "Email is already in use"
	}
	if msg := firstString(body["non_field_errors"]); msg != "" {
		return msg
	}
	return "Bad request, please contact support"
}

// backendMessage picks the most specific message from an error body.
func backendMessage(body map[string]any) string {
	for _, key := range []string{"error", "detail", "message", "non_field_errors"} {
		if msg := firstString(body[key]); msg != "" {
			return msg
		}
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msg := firstString(body[k]); msg != "" {
			return k + ": " + msg
		}
	}
	return ""
}

func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, e := range t {
			if s := firstString(e); s != "" {
				return s
			}
		}
	}
	return ""
}
