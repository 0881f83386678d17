// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/models"
)

// usersContainer is the persisted shape of the credential container: the
// full user collection keyed by lower-cased email.
type usersContainer struct {
	Users map[string]models.User `json:"users"`
}

// credentialStore is the container-backed implementation of
// [UserCredentials]. The whole collection is read into memory on every load
// and re-encrypted and flushed atomically on every mutation. A single
// internal mutex serializes read-modify-write cycles, so concurrent Update
// calls apply in some total order with no lost updates.
type credentialStore struct {
	containers *ContainerStore
	file       string
	logger     *logger.Logger

	// mu serializes all mutations of the container. Readers also take it:
	// loads are cheap at this scale and a reader can then never observe a
	// half-applied update cycle.
	mu sync.Mutex
}

// NewCredentialStore constructs a [UserCredentials] persisting into the
// named container file.
func NewCredentialStore(containers *ContainerStore, file string, log *logger.Logger) UserCredentials {
	log.Debug().Str("file", file).Msg("creating credential store")
	return &credentialStore{
		containers: containers,
		file:       file,
		logger:     log,
	}
}

// Exists reports whether the credential container has been created yet.
// A container that exists but cannot be decrypted still EXISTS: only
// [ErrContainerNotFound] reports absence. Anything else must never be
// mistaken for a fresh installation, or a wrong master passphrase would
// invite overwriting the real container.
func (s *credentialStore) Exists(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var probe usersContainer
	err := s.containers.Load(s.file, &probe)
	return !errors.Is(err, ErrContainerNotFound)
}

// Load implements [UserCredentials]. It decrypts the full user collection.
// A missing container yields [ErrContainerNotFound]; a container that fails
// authentication yields [ErrCorruptContainer] and is never masked as empty.
func (s *credentialStore) Load(ctx context.Context) (map[string]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save implements [UserCredentials]. It re-encrypts the full collection and
// atomically replaces the container file.
func (s *credentialStore) Save(ctx context.Context, users map[string]models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containers.Save(s.file, usersContainer{Users: users})
}

// Update implements [UserCredentials]. It runs fn against the freshly
// loaded collection and persists the result, all under the store's write
// lock. N concurrent updates therefore commit as N serialized transactions;
// a concurrent reader sees either the previous or the new container, never
// a partial one (atomic replace-on-write).
//
// If fn returns an error the container is left untouched.
func (s *credentialStore) Update(ctx context.Context, fn func(users map[string]models.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(users); err != nil {
		return err
	}

	return s.containers.Save(s.file, usersContainer{Users: users})
}

// load reads the container without taking the lock; callers hold it.
func (s *credentialStore) load() (map[string]models.User, error) {
	var container usersContainer
	if err := s.containers.Load(s.file, &container); err != nil {
		return nil, err
	}
	if container.Users == nil {
		container.Users = make(map[string]models.User)
	}
	return container.Users, nil
}
