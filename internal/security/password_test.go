package security_test

import (
	"testing"

	"github.com/geocoder89/sewasanjal/internal/security"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "secret1" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "secret1"); err != nil {
		t.Fatalf("expected matching password to verify, got %v", err)
	}

	for _, wrong := range []string{"secret2", "Secret1", "", "secret1 "} {
		if err := security.CheckPassword(hash, wrong); err == nil {
			t.Fatalf("expected %q to be rejected", wrong)
		}
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := security.HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := security.HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestCheckPassword_HashIsNotAPassword(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// presenting the stored hash itself must not authenticate
	if err := security.CheckPassword(hash, hash); err == nil {
		t.Fatalf("stored hash must not verify as the password")
	}
}
