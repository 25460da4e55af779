// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quill/cli/internal/tokenstore"
)

// ErrNoToken is returned when no access token is stored.
var ErrNoToken = errors.New("no access token stored")

// Claims are the display fields of an access token.
type Claims struct {
	UserID    string
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token expiry is in the past.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the stored access token without verifying its signature.
// The values are for display only; the backend remains the authority.
func (s *Service) Claims() (*Claims, error) {
	token := tokenstore.AccessToken(s.store)
	if token == "" {
		return nil, ErrNoToken
	}
	return ParseClaims(token)
}

// ParseClaims extracts display claims from a JWT without validation.
func ParseClaims(token string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	c := &Claims{}
	switch uid := mc["user_id"].(type) {
	case string:
		c.UserID = uid
	case float64:
		c.UserID = fmt.Sprintf("%.0f", uid)
	}
	if c.UserID == "" {
		c.UserID, _ = mc.GetSubject()
	}
	if tt, ok := mc["token_type"].(string); ok {
		c.TokenType = tt
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, nil
}
