package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password12345", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "password12345" {
		t.Error("HashPassword() returned the plain text password")
	}

	if err := CheckPassword("password12345", hash); err != nil {
		t.Errorf("CheckPassword() failed for correct password: %v", err)
	}
	if err := CheckPassword("wrong", hash); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("CheckPassword() error = %v, want ErrInvalidPassword", err)
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short", bcrypt.MinCost)
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("HashPassword() error = %v, want ErrPasswordTooShort", err)
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("HashPassword() error = %v, want ErrPasswordTooLong", err)
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	first, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() failed: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("GenerateSessionSecret() length = %d, want 64 hex chars", len(first))
	}

	second, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() failed: %v", err)
	}
	if first == second {
		t.Error("GenerateSessionSecret() returned the same secret twice")
	}
}
