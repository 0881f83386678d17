// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

// ErrAuthenticationFailed is the only error Decrypt reports for a failed
// open. It deliberately does not distinguish a wrong key from corrupted
// data to avoid oracle leakage.
var ErrAuthenticationFailed = errors.New("authentication failed")

const saltLength = 32

// vault is the private implementation of [Vault].
type vault struct {
	// Argon2id tuning parameters. Stored in the struct so the work factor
	// can be adjusted per deployment target.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewVault constructs a [Vault] with the Argon2id parameters recommended by
// OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
//
// Use [NewVaultWithParams] to override the work factor from configuration.
func NewVault() Vault {
	return &vault{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// NewVaultWithParams constructs a [Vault] with an explicit Argon2id work
// factor. Zero values fall back to the [NewVault] defaults.
func NewVaultWithParams(time, memoryKiB uint32, threads uint8) Vault {
	v := NewVault().(*vault)
	if time > 0 {
		v.argonTime = time
	}
	if memoryKiB > 0 {
		v.argonMemory = memoryKiB
	}
	if threads > 0 {
		v.argonThreads = threads
	}
	return v
}

// GenerateSalt implements [Vault]. It reads 32 random bytes from the OS
// CSPRNG. Returns an error if the random read fails.
func (v *vault) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [Vault]. It derives a 256-bit key from passphrase and
// salt using Argon2id with the parameters stored in the receiver. The result
// exists only in process memory and is never persisted in raw form.
func (v *vault) DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(passphrase),
		salt,
		v.argonTime,
		v.argonMemory,
		v.argonThreads,
		v.argonKeyLen,
	)
}

// Encrypt implements [Vault]. It seals plaintext with key using AES-256-GCM.
// A random 12-byte nonce is generated per call and prepended to the
// ciphertext so that the decryption side can locate it: blob = nonce ‖
// ciphertext. The blob is returned Base64 (standard encoding) encoded.
func (v *vault) Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Prepend the nonce so Decrypt can split it out without side-channel.
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	blob := append(nonce, ciphertext...)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(blob)))
	base64.StdEncoding.Encode(encoded, blob)
	return encoded, nil
}

// Decrypt implements [Vault]. It Base64-decodes the blob produced by
// [vault.Encrypt], splits out the nonce, and opens the ciphertext with key
// via AES-256-GCM. Every failure mode collapses into
// [ErrAuthenticationFailed]: decryption fails closed and no partial
// plaintext is ever returned.
func (v *vault) Decrypt(key, blob []byte) ([]byte, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(blob)))
	n, err := base64.StdEncoding.Decode(raw, blob)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	raw = raw[:n]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return nil, ErrAuthenticationFailed
	}
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}
