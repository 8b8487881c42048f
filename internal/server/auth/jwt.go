// Package auth implements stateless session tokens: signed, time-boxed
// claim sets with no server-side record. Suspension is NOT encoded here;
// services re-check it against storage on every authorized call.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sealedchat/sealedchat/internal/common"
)

// Claims is the claim set carried by a session token. Subject is the
// user's normalized email.
type Claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	IsAdmin bool   `json:"adm"`
}

// GenerateToken mints an HS256 token for the given identity, valid for ttl.
func GenerateToken(email, name string, isAdmin bool, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:    name,
		IsAdmin: isAdmin,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies signature and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired; every other failure is
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
