package cryptox

import (
	"errors"
	"testing"

	"github.com/sealedchat/sealedchat/internal/common"
)

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	t.Parallel()

	key, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair error: %v", err)
	}

	wrapped, err := WrapPrivateKey(key, []byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("WrapPrivateKey error: %v", err)
	}
	if len(wrapped.Ciphertext) == 0 || len(wrapped.Salt) != 16 || len(wrapped.IV) != 16 {
		t.Fatalf("unexpected wrapped shape: ct=%d salt=%d iv=%d",
			len(wrapped.Ciphertext), len(wrapped.Salt), len(wrapped.IV))
	}

	got, err := UnwrapPrivateKey(wrapped, []byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("UnwrapPrivateKey error: %v", err)
	}
	if !got.Equal(key) {
		t.Fatalf("unwrapped key differs from original")
	}
}

func TestWrapUnwrap_WrongPassphrase(t *testing.T) {
	t.Parallel()

	key, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair error: %v", err)
	}
	wrapped, err := WrapPrivateKey(key, []byte("right"))
	if err != nil {
		t.Fatalf("WrapPrivateKey error: %v", err)
	}

	_, err = UnwrapPrivateKey(wrapped, []byte("wrong"))
	if !errors.Is(err, common.ErrorWrongPassphrase) {
		t.Fatalf("expected ErrorWrongPassphrase, got %v", err)
	}
}

func TestUnwrap_CorruptedCiphertextSameError(t *testing.T) {
	t.Parallel()

	key, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair error: %v", err)
	}
	wrapped, err := WrapPrivateKey(key, []byte("pass"))
	if err != nil {
		t.Fatalf("WrapPrivateKey error: %v", err)
	}

	// Flip a byte in the middle of the ciphertext. The failure must be
	// indistinguishable from a wrong passphrase.
	wrapped.Ciphertext[len(wrapped.Ciphertext)/2] ^= 0xff

	_, err = UnwrapPrivateKey(wrapped, []byte("pass"))
	if !errors.Is(err, common.ErrorWrongPassphrase) {
		t.Fatalf("expected ErrorWrongPassphrase, got %v", err)
	}
}

func TestPKCS7_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 15, 16, 17, 31, 32} {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i)
		}
		padded := pkcs7Pad(data, 16)
		if len(padded)%16 != 0 {
			t.Fatalf("size %d: padded length %d not a multiple of 16", size, len(padded))
		}
		got, err := pkcs7Unpad(padded, 16)
		if err != nil {
			t.Fatalf("size %d: unpad error: %v", size, err)
		}
		if len(got) != size {
			t.Fatalf("size %d: got %d bytes back", size, len(got))
		}
	}
}

func TestPKCS7Unpad_Invalid(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		nil,
		{1, 2, 3},
		append(make([]byte, 15), 0),  // zero pad byte
		append(make([]byte, 15), 17), // pad byte > block size
		{2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 3, 2}, // inconsistent tail
	}
	for i, c := range cases {
		if _, err := pkcs7Unpad(c, 16); err == nil {
			t.Fatalf("case %d: expected error, got nil", i)
		}
	}
}
