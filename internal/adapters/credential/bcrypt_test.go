package credential_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/egov-portal/portal-service/internal/adapters/credential"
	"github.com/egov-portal/portal-service/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := credential.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if !h.Verify(hash, "s3cret-pass") {
		t.Error("expected correct password to verify")
	}
	if h.Verify(hash, "wrong-pass") {
		t.Error("expected wrong password to be rejected")
	}
}

func TestBcryptHasher_InvalidHash(t *testing.T) {
	h := credential.NewBcryptHasher(0)
	if h.Verify("not-a-bcrypt-hash", "anything") {
		t.Error("expected malformed hash to be rejected")
	}
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	h := credential.NewBcryptHasher(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("a", 73)); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for 73-byte password, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("expected 72-byte password to hash, got %v", err)
	}
}
