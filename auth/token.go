// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/fieldsurvey/models"
)

// SessionCookie is the cookie the auth service sets after login
const SessionCookie = "fs_session"

// Claims carried by session tokens. Subject is the profile ID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Resolver turns a request into the authenticated user it carries
type Resolver struct {
	secret []byte
}

func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// Resolve returns the user and raw token of the request.
// A request without any token resolves to (nil, "", nil).
func (r *Resolver) Resolve(req *http.Request) (*models.AuthenticatedUser, string, error) {
	raw := bearerToken(req)
	if raw == "" {
		if c, err := req.Cookie(SessionCookie); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return nil, "", nil
	}

	user, err := r.Parse(raw)
	if err != nil {
		return nil, "", err
	}
	return user, raw, nil
}

// Parse verifies an HS256 session token
func (r *Resolver) Parse(raw string) (*models.AuthenticatedUser, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role", ErrInvalidToken)
	}
	return &models.AuthenticatedUser{
		Role:      models.Role(claims.Role),
		ProfileID: claims.Subject,
	}, nil
}

func bearerToken(req *http.Request) string {
	h := req.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IsInvalidToken reports whether err came from token verification
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
