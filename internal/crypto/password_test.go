package crypto

import "testing"

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher()

	hash, err := h.HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "Passw0rd!" {
		t.Fatalf("hash must not equal the password")
	}

	if !h.VerifyPassword("Passw0rd!", hash) {
		t.Fatalf("expected correct password to verify")
	}
	if h.VerifyPassword("wrong password", hash) {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewPasswordHasher()

	h1, err := h.HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := h.HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("expected salted hashes of the same password to differ")
	}
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	h := NewPasswordHasher()

	if h.VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("expected verification against garbage hash to fail")
	}
}
