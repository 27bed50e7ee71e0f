package core

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PeekExpiry reads the expiry claim out of a session token without
// verifying its signature. The client has no signing secret, so this is
// only ever a fast path: a token that is demonstrably past its expiry can
// be discarded without a validation round trip. Opaque, non-JWT tokens
// report no expiry and must be validated by the server.
func PeekExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiredLocally reports whether the token can be rejected without asking
// the server.
func ExpiredLocally(token string, now time.Time) bool {
	exp, ok := PeekExpiry(token)
	return ok && now.After(exp)
}
