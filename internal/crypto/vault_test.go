package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	v := NewVault()

	s1, err := v.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	s2, err := v.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	if len(s1) != 32 {
		t.Fatalf("salt length = %d, want 32", len(s1))
	}
	if len(s2) != 32 {
		t.Fatalf("salt length = %d, want 32", len(s2))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	v := NewVault()

	passphrase := "correct horse battery staple"
	salt := bytes.Repeat([]byte{0xAB}, 32)

	k1 := v.DeriveKey(passphrase, salt)
	k2 := v.DeriveKey(passphrase, salt)

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for same passphrase+salt")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	v := NewVault()

	passphrase := "same passphrase"
	salt1 := bytes.Repeat([]byte{0x01}, 32)
	salt2 := bytes.Repeat([]byte{0x02}, 32)

	if bytes.Equal(v.DeriveKey(passphrase, salt1), v.DeriveKey(passphrase, salt2)) {
		t.Fatalf("expected different keys for different salts")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	v := NewVault()
	key := bytes.Repeat([]byte{0x2A}, 32)

	payloads := [][]byte{
		nil,
		{},
		[]byte("x"),
		[]byte(`{"users":{}}`),
		bytes.Repeat([]byte{0xF0}, 64*1024),
	}

	for _, plaintext := range payloads {
		blob, err := v.Encrypt(key, plaintext)
		if err != nil {
			t.Fatalf("Encrypt error for %d bytes: %v", len(plaintext), err)
		}

		got, err := v.Decrypt(key, blob)
		if err != nil {
			t.Fatalf("Decrypt error for %d bytes: %v", len(plaintext), err)
		}
		if !bytes.Equal(got, plaintext) && len(plaintext) != 0 {
			t.Fatalf("round trip mismatch for %d bytes", len(plaintext))
		}
		if len(plaintext) == 0 && len(got) != 0 {
			t.Fatalf("expected empty plaintext, got %d bytes", len(got))
		}
	}
}

func TestEncrypt_NonceRandomness(t *testing.T) {
	v := NewVault()
	key := bytes.Repeat([]byte{0x2A}, 32)
	plaintext := []byte("the same payload twice")

	blob1, err := v.Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	blob2, err := v.Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if bytes.Equal(blob1, blob2) {
		t.Fatalf("expected different blobs for two encryptions of the same payload")
	}
}

func TestDecrypt_WrongKeyFailsClosed(t *testing.T) {
	v := NewVault()
	key := bytes.Repeat([]byte{0x11}, 32)
	wrongKey := bytes.Repeat([]byte{0x22}, 32)

	blob, err := v.Encrypt(key, []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	got, err := v.Decrypt(wrongKey, blob)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Decrypt with wrong key: err = %v, want ErrAuthenticationFailed", err)
	}
	if got != nil {
		t.Fatalf("expected no partial output, got %d bytes", len(got))
	}
}

func TestDecrypt_TamperedCiphertextFailsClosed(t *testing.T) {
	v := NewVault()
	key := bytes.Repeat([]byte{0x11}, 32)

	blob, err := v.Encrypt(key, []byte("secret payload"))
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	// Flip one base64 character somewhere past the nonce.
	tampered := bytes.Clone(blob)
	i := len(tampered) / 2
	if tampered[i] == 'A' {
		tampered[i] = 'B'
	} else {
		tampered[i] = 'A'
	}

	if _, err := v.Decrypt(key, tampered); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Decrypt of tampered blob: err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecrypt_GarbageInputsFailClosed(t *testing.T) {
	v := NewVault()
	key := bytes.Repeat([]byte{0x11}, 32)

	inputs := [][]byte{
		nil,
		[]byte("not base64 at all!!!"),
		[]byte("QUJD"), // valid base64, shorter than a nonce
	}

	for _, in := range inputs {
		if _, err := v.Decrypt(key, in); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("Decrypt(%q): err = %v, want ErrAuthenticationFailed", in, err)
		}
	}
}
