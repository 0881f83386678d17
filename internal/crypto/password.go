// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "golang.org/x/crypto/bcrypt"

// passwordHasher is the bcrypt-backed implementation of [PasswordHasher].
type passwordHasher struct {
	cost int
}

// NewPasswordHasher constructs a [PasswordHasher] using bcrypt with the
// library default cost. bcrypt is used for per-user password hashes, not for
// master-key derivation: the two must stay distinct primitives.
func NewPasswordHasher() PasswordHasher {
	return &passwordHasher{cost: bcrypt.DefaultCost}
}

// HashPassword implements [PasswordHasher]. bcrypt generates its own salt,
// so equal passwords hash to different values.
func (p *passwordHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword implements [PasswordHasher]. It reports only match or
// mismatch; the cause of a mismatch is never surfaced.
func (p *passwordHasher) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
