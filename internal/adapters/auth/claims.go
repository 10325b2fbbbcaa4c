// Package auth inspects bearer credentials on the client side. The client
// never verifies signatures; the server is the authority. Claims are parsed
// only to surface informational fields like expiry.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// ExpiryOf returns the token's expiry claim, or the zero time when the
// credential is not a JWT or carries no expiry.
func ExpiryOf(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// SubjectOf returns the token's subject claim, or "" when absent.
func SubjectOf(token string) string {
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
