package cryptox

import (
	"bytes"
	"testing"
)

func TestChatKey_BothPartiesRecoverSameKey(t *testing.T) {
	t.Parallel()

	alice, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair error: %v", err)
	}
	bob, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair error: %v", err)
	}

	key := NewChatKey()
	if len(key) != 32 {
		t.Fatalf("expected 32-byte chat key, got %d", len(key))
	}

	ctA, err := EncryptChatKey(key, &alice.PublicKey)
	if err != nil {
		t.Fatalf("EncryptChatKey(alice) error: %v", err)
	}
	ctB, err := EncryptChatKey(key, &bob.PublicKey)
	if err != nil {
		t.Fatalf("EncryptChatKey(bob) error: %v", err)
	}

	gotA, err := DecryptChatKey(ctA, alice)
	if err != nil {
		t.Fatalf("DecryptChatKey(alice) error: %v", err)
	}
	gotB, err := DecryptChatKey(ctB, bob)
	if err != nil {
		t.Fatalf("DecryptChatKey(bob) error: %v", err)
	}

	if !bytes.Equal(gotA, key) || !bytes.Equal(gotB, key) {
		t.Fatalf("decrypted keys differ from original")
	}
}

func TestChatKey_WrongPrivateKeyFails(t *testing.T) {
	t.Parallel()

	alice, _ := GenerateKeyPair()
	mallory, _ := GenerateKeyPair()

	key := NewChatKey()
	ct, err := EncryptChatKey(key, &alice.PublicKey)
	if err != nil {
		t.Fatalf("EncryptChatKey error: %v", err)
	}

	if _, err := DecryptChatKey(ct, mallory); err == nil {
		t.Fatalf("expected decryption failure with wrong private key")
	}
}

func TestMessage_RoundTrip(t *testing.T) {
	t.Parallel()

	key := NewChatKey()
	plaintext := []byte("hello, sealed world")

	ct, err := EncryptMessage(plaintext, key)
	if err != nil {
		t.Fatalf("EncryptMessage error: %v", err)
	}
	got, err := DecryptMessage(ct, key)
	if err != nil {
		t.Fatalf("DecryptMessage error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q", got)
	}

	if _, err := DecryptMessage(ct, NewChatKey()); err == nil {
		t.Fatalf("expected failure with wrong key")
	}
}
