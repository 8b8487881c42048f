package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/sealedchat/sealedchat/internal/common"
)

// EncryptMessage encrypts a message body with AES-GCM under a chat key.
// The random nonce is prepended to the returned ciphertext. The server never
// calls this: message encryption happens on clients, but the helper lives
// here so both client code and the end-to-end tests share one codec.
func EncryptMessage(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptMessage reverses EncryptMessage, splitting off the prepended nonce.
func DecryptMessage(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aesgcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ciphertext[:aesgcm.NonceSize()], ciphertext[aesgcm.NonceSize():]
	return aesgcm.Open(nil, nonce, sealed, nil)
}
