// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/models"
)

func newTestCredentialStore(t *testing.T) UserCredentials {
	t.Helper()
	containers := newTestContainerStore(t)
	if err := containers.Unlock("master"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	return NewCredentialStore(containers, "users.enc", logger.Nop())
}

func TestCredentialStore_LoadMissing(t *testing.T) {
	store := newTestCredentialStore(t)

	if _, err := store.Load(context.Background()); !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
	if store.Exists(context.Background()) {
		t.Fatal("store should not exist before first save")
	}
}

func TestCredentialStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	users := map[string]models.User{
		"root@vault.local": {ID: "u-1", Email: "root@vault.local", Role: models.RoleRoot},
	}
	if err := store.Save(ctx, users); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !store.Exists(ctx) {
		t.Fatal("store should exist after save")
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 user, got %d", len(loaded))
	}
	if loaded["root@vault.local"].Role != models.RoleRoot {
		t.Fatalf("role mismatch: %v", loaded["root@vault.local"].Role)
	}
}

func TestCredentialStore_UpdateErrorLeavesContainerUntouched(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, map[string]models.User{
		"a@vault.local": {ID: "u-1", Email: "a@vault.local"},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	wantErr := errors.New("validation failed")
	err := store.Update(ctx, func(users map[string]models.User) error {
		users["b@vault.local"] = models.User{ID: "u-2", Email: "b@vault.local"}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("failed update must not persist: got %d users", len(loaded))
	}
}

// A container written under one master passphrase and reopened under another
// still exists. Exists must report true for it, or a startup with the wrong
// passphrase would mistake the installation for a fresh one and overwrite the
// real user collection.
func TestCredentialStore_UndecryptableContainerStillExists(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Containers{
		Dir:      dir,
		SaltFile: "salt.key",
	}
	ctx := context.Background()

	original := NewContainerStore(cfg, testVault(), logger.Nop())
	if err := original.Unlock("correct horse"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	store := NewCredentialStore(original, "users.enc", logger.Nop())
	if err := store.Save(ctx, map[string]models.User{
		"root@vault.local": {ID: "u-1", Email: "root@vault.local", Role: models.RoleRoot},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	mistyped := NewContainerStore(cfg, testVault(), logger.Nop())
	if err := mistyped.Unlock("wrong passphrase"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	reopened := NewCredentialStore(mistyped, "users.enc", logger.Nop())

	if !reopened.Exists(ctx) {
		t.Fatal("an undecryptable container must still report existence")
	}
	if _, err := reopened.Load(ctx); !errors.Is(err, ErrCorruptContainer) {
		t.Fatalf("expected ErrCorruptContainer, got %v", err)
	}
}

// Concurrent updates must serialize with no lost writes: N goroutines each
// add one distinct user and all N must survive.
func TestCredentialStore_ConcurrentUpdates(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, map[string]models.User{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@vault.local", i)
			errs <- store.Update(ctx, func(users map[string]models.User) error {
				users[email] = models.User{ID: fmt.Sprintf("u-%d", i), Email: email}
				return nil
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent update failed: %v", err)
		}
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != writers {
		t.Fatalf("lost updates: expected %d users, got %d", writers, len(loaded))
	}
}
