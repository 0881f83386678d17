package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is an issued authentication session. The signed token string is
// what callers present on subsequent requests; the rest is the server-side
// view kept in the session registry so that logout and forced invalidation
// take effect before the token's natural expiry.
type Session struct {
	// ID is the token's unique identifier (jti claim).
	ID string `json:"id"`

	// Token is the signed, opaque-to-the-caller token string.
	Token string `json:"-"`

	// UserID identifies the backing user account.
	UserID string `json:"user_id"`

	// Email of the backing user at issuance time.
	Email string `json:"email"`

	// Role is the role snapshot taken at issuance. Rank changes are honored
	// lazily at the next validation; status changes invalidate immediately.
	Role Role `json:"role"`

	// IssuedAt is the issuance instant.
	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt is always IssuedAt plus the configured session duration.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is expired at the given instant.
// A session is rejected at and after its expiry instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionClaims is the JWT claim set embedded in every issued token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Role is the role snapshot at issuance.
	Role Role `json:"role"`

	// Email of the backing user.
	Email string `json:"email"`
}
