// Package utils provides general-purpose helper utilities used across
// different parts of the application: context keys, UUID generation,
// JWT session-token generation and validation, and clock injection.
package utils

import (
	"context"

	"github.com/MKhiriev/go-data-vault/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SessionCtxKey is the key used to store the validated session in the
// context. Used together with GetSessionFromContext for type-safe retrieval.
var SessionCtxKey = contextKey("session")

// WithSession returns a copy of ctx carrying the validated session.
func WithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, SessionCtxKey, session)
}

// GetSessionFromContext retrieves the validated session from the context.
//
// Returns the session and an ok flag:
//   - ok == true  — value is found and has the correct type
//   - ok == false — value is missing or has an unexpected type
func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(SessionCtxKey).(models.Session)
	return session, ok
}
