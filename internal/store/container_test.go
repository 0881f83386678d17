package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/crypto"
	"github.com/MKhiriev/go-data-vault/internal/logger"
)

// testVault uses a reduced Argon2id work factor so the suite stays fast.
func testVault() crypto.Vault {
	return crypto.NewVaultWithParams(1, 1024, 1)
}

func newTestContainerStore(t *testing.T) *ContainerStore {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Containers{
		Dir:      dir,
		SaltFile: "salt.key",
	}
	return NewContainerStore(cfg, testVault(), logger.Nop())
}

func TestEnsureSalt_GeneratedOnceAndStable(t *testing.T) {
	store := newTestContainerStore(t)

	first, err := store.EnsureSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 32 {
		t.Fatalf("expected 32-byte salt, got %d bytes", len(first))
	}

	second, err := store.EnsureSalt()
	if err != nil {
		t.Fatalf("unexpected error on second read: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("salt changed between reads; must be persisted once")
	}
}

func TestEnsureSalt_EmptyFileIsCorrupt(t *testing.T) {
	store := newTestContainerStore(t)

	if err := os.WriteFile(store.saltFile, nil, 0o600); err != nil {
		t.Fatalf("failed to write empty salt file: %v", err)
	}

	if _, err := store.EnsureSalt(); !errors.Is(err, ErrCorruptContainer) {
		t.Fatalf("expected ErrCorruptContainer, got %v", err)
	}
}

func TestContainerStore_RequiresUnlock(t *testing.T) {
	store := newTestContainerStore(t)

	var target map[string]string
	if err := store.Load("x.enc", &target); err == nil {
		t.Fatal("expected error loading from a locked store")
	}
	if err := store.Save("x.enc", map[string]string{"a": "b"}); err == nil {
		t.Fatal("expected error saving to a locked store")
	}
}

func TestContainerStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestContainerStore(t)
	if err := store.Unlock("correct horse battery staple"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	want := payload{Name: "alpha", Count: 7}
	if err := store.Save("test.enc", want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var got payload
	if err := store.Load("test.enc", &got); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestContainerStore_LoadMissing(t *testing.T) {
	store := newTestContainerStore(t)
	if err := store.Unlock("pass"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	var target map[string]string
	if err := store.Load("missing.enc", &target); !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
}

func TestContainerStore_TamperedContainer(t *testing.T) {
	store := newTestContainerStore(t)
	if err := store.Unlock("pass"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	if err := store.Save("test.enc", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join(store.dir, "test.enc")
	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	blob[len(blob)/2] ^= 0xff
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var target map[string]string
	if err := store.Load("test.enc", &target); !errors.Is(err, ErrCorruptContainer) {
		t.Fatalf("expected ErrCorruptContainer, got %v", err)
	}
	if target != nil {
		t.Fatal("no partial output expected on failed authentication")
	}
}

func TestContainerStore_WrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Containers{Dir: dir, SaltFile: "salt.key"}

	writer := NewContainerStore(cfg, testVault(), logger.Nop())
	if err := writer.Unlock("right passphrase"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if err := writer.Save("test.enc", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reader := NewContainerStore(cfg, testVault(), logger.Nop())
	if err := reader.Unlock("wrong passphrase"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	var target map[string]string
	if err := reader.Load("test.enc", &target); !errors.Is(err, ErrCorruptContainer) {
		t.Fatalf("expected ErrCorruptContainer, got %v", err)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	store := newTestContainerStore(t)
	if err := store.Unlock("pass"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	plaintext := []byte(`{"field":"value"}`)
	sealed, err := store.Seal(plaintext)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if string(sealed) == string(plaintext) {
		t.Fatal("sealed payload must not equal plaintext")
	}

	opened, err := store.Open(sealed)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(opened) != string(plaintext) {
		t.Fatalf("round trip mismatch: got %q", opened)
	}
}

func TestSealOpen_TamperedPayload(t *testing.T) {
	store := newTestContainerStore(t)
	if err := store.Unlock("pass"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	sealed, err := store.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	sealed[len(sealed)/2] ^= 0x01

	if _, err := store.Open(sealed); !errors.Is(err, ErrCorruptContainer) {
		t.Fatalf("expected ErrCorruptContainer, got %v", err)
	}
}
