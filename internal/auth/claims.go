// Package auth reads what the client may know about its own bearer token.
// Tokens are never verified here; the API is the only judge of validity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotJWT = errors.New("token is not a JWT")

// Claims are the fields of an access token shown to its owner.
type Claims struct {
	UserID string   `json:"user_id,omitempty"`
	Role   string   `json:"role,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// AllRoles merges the single and list role claims.
func (c *Claims) AllRoles() []string {
	roles := append([]string(nil), c.Roles...)
	if c.Role != "" {
		roles = append(roles, c.Role)
	}
	return roles
}

// ExpiresIn returns how long until the token expires. ok is false when the
// token carries no expiry.
func (c *Claims) ExpiresIn(now time.Time) (time.Duration, bool) {
	if c.ExpiresAt == nil {
		return 0, false
	}
	return c.ExpiresAt.Sub(now), true
}

// Expired reports whether the token is past its expiry.
func (c *Claims) Expired(now time.Time) bool {
	left, ok := c.ExpiresIn(now)
	return ok && left <= 0
}

// Inspect decodes the claims of token without checking its signature.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJWT, err)
	}

	return claims, nil
}
