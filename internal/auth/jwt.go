package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned when the token is not a JWT
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenInfo holds the claims of a bearer token that are useful to show
type TokenInfo struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token carries an expiry that has passed
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

type tokenClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// InspectToken decodes the claims of a JWT without verifying its signature.
// The client never holds the signing key, so this is informational only and
// must not be used for access decisions.
func InspectToken(token string) (*TokenInfo, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrOpaqueToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if info.Subject == "" {
		info.Subject = claims.Email
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}

	return info, nil
}
