package models

import "time"

// UserStatus describes the lifecycle state of a user account.
type UserStatus string

const (
	// StatusActive marks an account that may authenticate normally.
	StatusActive UserStatus = "active"

	// StatusLocked marks an account refused authentication until its
	// LockoutUntil timestamp elapses.
	StatusLocked UserStatus = "locked"

	// StatusSuspended marks an account disabled by an administrator.
	// Suspended accounts are refused authentication and token validation
	// until explicitly reactivated.
	StatusSuspended UserStatus = "suspended"
)

// User represents an account entity used for authentication and authorization.
// The full user collection is persisted as a single encrypted container; see
// the store package. Sensitive fields must never be exposed outside trusted
// boundaries.
type User struct {
	// ID is the stable, immutable identifier of the user (UUID).
	// Assigned once at creation and never reused.
	ID string `json:"id"`

	// Email is the unique login identifier. Stored lower-cased so that
	// lookups are case-insensitive.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never plaintext, never logged.
	PasswordHash string `json:"password_hash"`

	// Role places the user in the rank hierarchy. See Role.
	Role Role `json:"role"`

	// Status is the current lifecycle state of the account.
	Status UserStatus `json:"status"`

	// FailedAttempts counts consecutive failed authentication attempts.
	// Reset to zero on the first successful authentication.
	FailedAttempts int `json:"failed_attempts"`

	// LockoutUntil is set when FailedAttempts reaches the configured
	// threshold. Nil while the account is not locked out.
	LockoutUntil *time.Time `json:"lockout_until,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// CreatedBy is the email of the actor that created the account.
	// Empty for the bootstrap account.
	CreatedBy string `json:"created_by,omitempty"`

	// LastLoginAt records the most recent successful authentication.
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Sanitized returns a copy of the user with credential material removed,
// suitable for returning across the API boundary.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
