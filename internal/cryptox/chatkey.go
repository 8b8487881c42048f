package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"

	"github.com/sealedchat/sealedchat/internal/common"
)

const chatKeySize = 32

// NewChatKey generates a fresh random 256-bit symmetric key for a
// conversation pair.
func NewChatKey() []byte {
	return common.GenerateRandByteArray(chatKeySize)
}

// EncryptChatKey wraps a symmetric chat key for one participant by
// encrypting it under that participant's RSA public key with OAEP/SHA-256.
func EncryptChatKey(key []byte, pub *rsa.PublicKey) ([]byte, error) {
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
}

// DecryptChatKey recovers a symmetric chat key from the participant's slot
// using their private key.
func DecryptChatKey(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error) {
	return rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
}
