package auth

import (
	"errors"
	"testing"
)

func TestHashPassword(t *testing.T) {
	plain := "testpassword123"

	hash, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "" || hash == plain {
		t.Errorf("unexpected hash %q", hash)
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("HashPassword() should reject short passwords")
	}
}

func TestComparePassword(t *testing.T) {
	plain := "testpassword123"

	hash, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if err := ComparePassword(hash, plain); err != nil {
		t.Errorf("ComparePassword() failed for correct password: %v", err)
	}
	if err := ComparePassword(hash, "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("ComparePassword() error = %v; want ErrInvalidCredentials", err)
	}
}

func TestComparePassword_DifferentHashes(t *testing.T) {
	plain := "testpassword123"

	hash1, _ := HashPassword(plain)
	hash2, _ := HashPassword(plain)

	// bcrypt salts every hash
	if hash1 == hash2 {
		t.Error("Expected different hashes for same password")
	}
	if err := ComparePassword(hash1, plain); err != nil {
		t.Error("First hash should validate")
	}
	if err := ComparePassword(hash2, plain); err != nil {
		t.Error("Second hash should validate")
	}
}
