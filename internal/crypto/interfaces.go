// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the vault primitives of the engine: slow key
// derivation from the master passphrase, authenticated encryption of at-rest
// payloads, and password hashing for user credentials.
//
// The vault is purely functional: given the same inputs it produces the same
// outputs (modulo fresh nonces) and has no side effects. It never logs
// plaintext or key material.
package crypto

// Vault derives encryption keys and performs authenticated
// encryption/decryption of at-rest payloads.
type Vault interface {
	// GenerateSalt reads 32 random bytes from the OS CSPRNG. The salt is
	// generated once per installation and persisted by the caller; it is
	// never regenerated.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives a 256-bit key from passphrase and salt using
	// Argon2id with the vault's configured work factor. Deliberately slow.
	DeriveKey(passphrase string, salt []byte) []byte

	// Encrypt seals plaintext with key using AES-256-GCM under a fresh
	// random nonce and returns the blob nonce ‖ ciphertext, Base64-encoded.
	Encrypt(key, plaintext []byte) ([]byte, error)

	// Decrypt opens a blob produced by Encrypt. Any failure — wrong key,
	// truncated blob, tampered ciphertext — is reported as the single
	// generic ErrAuthenticationFailed with no partial output, so callers
	// cannot be used as a decryption oracle.
	Decrypt(key, blob []byte) ([]byte, error)
}

// PasswordHasher hashes and verifies user passwords. Distinct from the KDF:
// password hashes are stored per user inside the credential container, while
// derived keys exist only in memory.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}
