package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"errors"

	"github.com/sealedchat/sealedchat/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	wrapIterations = 100_000
	wrapSaltSize   = 16
	wrapKeySize    = 32
)

// WrappedKey is the at-rest form of a private key: AES-256-CBC ciphertext
// plus the KDF salt and IV it was produced with. The three fields are always
// present together; a partial triple is unrepresentable.
type WrappedKey struct {
	Ciphertext []byte
	Salt       []byte
	IV         []byte
}

func deriveWrapKey(passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, wrapIterations, wrapKeySize, sha256.New)
}

// WrapPrivateKey encrypts a private key under a key derived from the
// passphrase. The key is serialized as unencrypted PKCS#8 DER, padded with
// PKCS#7 to the AES block size and encrypted with AES-256-CBC under a fresh
// random salt and IV.
func WrapPrivateKey(key *rsa.PrivateKey, passphrase []byte) (*WrappedKey, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}

	salt := common.GenerateRandByteArray(wrapSaltSize)
	iv := common.GenerateRandByteArray(aes.BlockSize)

	block, err := aes.NewCipher(deriveWrapKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(der, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return &WrappedKey{Ciphertext: ciphertext, Salt: salt, IV: iv}, nil
}

// UnwrapPrivateKey re-derives the wrapping key from the stored salt and the
// supplied passphrase and reverses WrapPrivateKey. Every failure mode
// (ciphertext length, padding, key parse) collapses into the single opaque
// common.ErrorWrongPassphrase so the error cannot serve as a padding oracle.
func UnwrapPrivateKey(w *WrappedKey, passphrase []byte) (*rsa.PrivateKey, error) {
	if len(w.Ciphertext) == 0 || len(w.Ciphertext)%aes.BlockSize != 0 || len(w.IV) != aes.BlockSize {
		return nil, common.ErrorWrongPassphrase
	}

	block, err := aes.NewCipher(deriveWrapKey(passphrase, w.Salt))
	if err != nil {
		return nil, common.ErrorWrongPassphrase
	}

	padded := make([]byte, len(w.Ciphertext))
	cipher.NewCBCDecrypter(block, w.IV).CryptBlocks(padded, w.Ciphertext)

	der, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, common.ErrorWrongPassphrase
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, common.ErrorWrongPassphrase
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, common.ErrorWrongPassphrase
	}
	return key, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padding")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
