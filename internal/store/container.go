// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/crypto"
	"github.com/MKhiriev/go-data-vault/internal/logger"
)

// ContainerStore manages the encrypted container files of an installation:
// the per-installation salt and the independently encrypted payload files
// (user credentials, schema). Every save goes through write-temp-then-rename
// so a crash mid-write can never leave a corrupt container behind.
//
// The store must be unlocked with the master passphrase before Load or Save
// is called. The derived key lives only in process memory.
type ContainerStore struct {
	dir      string
	saltFile string
	vault    crypto.Vault
	logger   *logger.Logger

	key []byte
}

// NewContainerStore constructs a [ContainerStore] rooted at cfg.Dir.
func NewContainerStore(cfg config.Containers, vault crypto.Vault, log *logger.Logger) *ContainerStore {
	log.Debug().Str("dir", cfg.Dir).Msg("creating container store")
	return &ContainerStore{
		dir:      cfg.Dir,
		saltFile: filepath.Join(cfg.Dir, cfg.SaltFile),
		vault:    vault,
		logger:   log,
	}
}

// EnsureSalt reads the per-installation salt, generating and persisting it
// on first run. The salt is written exactly once and never regenerated:
// regenerating it would silently orphan every existing container.
func (c *ContainerStore) EnsureSalt() ([]byte, error) {
	salt, err := os.ReadFile(c.saltFile)
	if err == nil {
		if len(salt) == 0 {
			return nil, fmt.Errorf("%w: salt file is empty", ErrCorruptContainer)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading salt file: %w", err)
	}

	salt, err = c.vault.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("error generating salt: %w", err)
	}
	if err := atomicWriteFile(c.saltFile, salt, 0o600); err != nil {
		return nil, fmt.Errorf("error persisting salt: %w", err)
	}

	c.logger.Info().Str("file", c.saltFile).Msg("generated installation salt")
	return salt, nil
}

// Unlock derives the installation key from the master passphrase and the
// persisted salt and keeps it in memory for the process lifetime. Loss of
// the passphrase or the salt makes all containers permanently unrecoverable;
// there is deliberately no fallback path.
func (c *ContainerStore) Unlock(masterPassphrase string) error {
	salt, err := c.EnsureSalt()
	if err != nil {
		return err
	}

	c.key = c.vault.DeriveKey(masterPassphrase, salt)
	return nil
}

// Load reads and decrypts the named container into target.
//
// Error handling:
//   - missing file → [ErrContainerNotFound] so first-run bootstrap can
//     create the container explicitly;
//   - failed authentication or undecodable plaintext → [ErrCorruptContainer],
//     surfaced for operator recovery and audited; never treated as empty.
func (c *ContainerStore) Load(name string, target any) error {
	if c.key == nil {
		return errors.New("container store is locked")
	}

	path := filepath.Join(c.dir, name)
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrContainerNotFound
		}
		return fmt.Errorf("error reading container %s: %w", name, err)
	}

	plaintext, err := c.vault.Decrypt(c.key, blob)
	if err != nil {
		c.logger.Audit(logger.AuditDecryptionFailed, name).Msg("container failed authentication")
		return fmt.Errorf("%w: %s", ErrCorruptContainer, name)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("%w: %s: undecodable payload", ErrCorruptContainer, name)
	}

	return nil
}

// Seal encrypts an arbitrary payload under the installation key. Used for
// per-row field encryption in the relational store, so record contents are
// protected with the same key material as the containers.
func (c *ContainerStore) Seal(plaintext []byte) ([]byte, error) {
	if c.key == nil {
		return nil, errors.New("container store is locked")
	}
	return c.vault.Encrypt(c.key, plaintext)
}

// Open is the inverse of [ContainerStore.Seal]. Authentication failure is
// reported as [ErrCorruptContainer]; no partial plaintext is ever returned.
func (c *ContainerStore) Open(blob []byte) ([]byte, error) {
	if c.key == nil {
		return nil, errors.New("container store is locked")
	}

	plaintext, err := c.vault.Decrypt(c.key, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: sealed payload failed authentication", ErrCorruptContainer)
	}
	return plaintext, nil
}

// Save encrypts data under a fresh nonce and atomically replaces the named
// container file. Idempotent: saving the same state twice is harmless.
func (c *ContainerStore) Save(name string, data any) error {
	if c.key == nil {
		return errors.New("container store is locked")
	}

	plaintext, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error encoding container %s: %w", name, err)
	}

	blob, err := c.vault.Encrypt(c.key, plaintext)
	if err != nil {
		return fmt.Errorf("error encrypting container %s: %w", name, err)
	}

	if err := atomicWriteFile(filepath.Join(c.dir, name), blob, 0o600); err != nil {
		return fmt.Errorf("error writing container %s: %w", name, err)
	}

	return nil
}
