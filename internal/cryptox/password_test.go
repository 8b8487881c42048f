package cryptox

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	verifier, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	salt, hash, ok := strings.Cut(verifier, ":")
	if !ok || salt == "" || hash == "" {
		t.Fatalf("verifier does not decompose into two non-empty parts: %q", verifier)
	}
	if len(salt) != 32 {
		t.Fatalf("expected 32 hex chars of salt, got %d", len(salt))
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	verifier, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !VerifyPassword("s3cret", verifier) {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword("wrong", verifier) {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerifyPassword_MalformedVerifier(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "nocolon", ":hashonly", "saltonly:"} {
		if VerifyPassword("whatever", v) {
			t.Fatalf("malformed verifier %q accepted", v)
		}
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	t.Parallel()

	v1, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	v2, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if v1 == v2 {
		t.Fatalf("two verifiers for the same password are identical")
	}
}
