package domain

import "time"

// RoleAdmin is the role code granting administrator access.
const RoleAdmin = "admin"

// AuthClaims is the authenticated identity carried by a bearer token.
type AuthClaims struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the claims include the role code.
func (c *AuthClaims) HasRole(code string) bool {
	for _, r := range c.Roles {
		if r == code {
			return true
		}
	}
	return false
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (*AuthClaims, error)
}
