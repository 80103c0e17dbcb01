// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidPageCookie = errors.New("invalid page cookie")
	ErrInvalidToken      = errors.New("invalid token")
)

// NewPageID returns a fresh identifier for a mounted page
func NewPageID() string {
	return uuid.NewString()
}

// SignPageID returns the page cookie value "<pageID>.<mac>".
// It is verifiable without server state.
func SignPageID(pageID, secret string) string {
	return pageID + "." + pageMAC(pageID, secret)
}

// VerifyPageCookie checks the cookie and returns the page ID it carries
func VerifyPageCookie(value, secret string) (string, error) {
	pageID, mac, ok := strings.Cut(value, ".")
	if !ok || pageID == "" || mac == "" {
		return "", ErrInvalidPageCookie
	}
	if _, err := uuid.Parse(pageID); err != nil {
		return "", ErrInvalidPageCookie
	}
	expected := pageMAC(pageID, secret)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return "", ErrInvalidPageCookie
	}
	return pageID, nil
}

func pageMAC(pageID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte("page:"))
	h.Write([]byte(pageID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding keeps the cookie value token-safe
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
