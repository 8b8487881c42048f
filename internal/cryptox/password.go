// Package cryptox implements the cryptographic core: password verifiers,
// RSA key provisioning, passphrase-based private-key wrapping, pairwise chat
// keys and symmetric message encryption helpers used by clients and tests.
package cryptox

import (
	"strings"

	"github.com/sealedchat/sealedchat/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const verifierSaltSize = 16

// HashPassword builds a password verifier: a fresh random salt is appended to
// the password and the result is hashed with bcrypt. The verifier is stored
// as "salt:hash" so that the salt survives independently of bcrypt's own
// embedded salt.
func HashPassword(password string) (string, error) {
	salt, err := common.MakeRandHexString(verifierSaltSize)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return salt + ":" + string(hash), nil
}

// VerifyPassword checks a candidate password against a stored "salt:hash"
// verifier. Comparison is delegated to bcrypt, which is constant time over
// the digest. Malformed verifiers never verify.
func VerifyPassword(password, verifier string) bool {
	salt, hash, ok := strings.Cut(verifier, ":")
	if !ok || salt == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+salt)) == nil
}
