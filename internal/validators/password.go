// Package validators contains the input validation rules enforced by the
// service layer: password composition, email shape, and data-record
// validation against the administrator-defined schema.
package validators

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// PasswordPolicy is the configurable composition rule set applied to every
// new password. The zero value accepts any non-empty password; use
// DefaultPasswordPolicy for the standard rules.
type PasswordPolicy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// DefaultPasswordPolicy returns the standard policy: at least 8 characters
// with upper, lower, digit, and special characters all present.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireDigit:   true,
		RequireSpecial: true,
	}
}

// Validate checks password against the policy. The first violated rule is
// returned; a nil error means the password is acceptable.
func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, p.MinLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if p.RequireUpper && !hasUpper {
		return ErrPasswordNoUpper
	}
	if p.RequireLower && !hasLower {
		return ErrPasswordNoLower
	}
	if p.RequireDigit && !hasDigit {
		return ErrPasswordNoDigit
	}
	if p.RequireSpecial && !hasSpecial {
		return ErrPasswordNoSpecial
	}

	return nil
}

// NormalizeEmail lower-cases and trims an email address so that lookups are
// case-insensitive, and validates its shape.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	return email, nil
}
