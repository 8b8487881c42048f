// Package models defines the persisted record types of the server.
// Required and optional fields are fixed here at compile time; partial
// key material is structurally unrepresentable.
package models

import (
	"time"

	"github.com/sealedchat/sealedchat/internal/cryptox"
)

// User is the canonical identity record: credentials, published key
// material and account status.
type User struct {
	ID       string
	Name     string
	Email    string // always stored lower-cased
	Verifier string // "salt:hash", see cryptox.HashPassword

	// PublicKeyPEM is published in the clear. WrappedPrivateKey holds the
	// private key encrypted under a key derived from the user's password;
	// its three parts are persisted independently but always together.
	PublicKeyPEM      []byte
	WrappedPrivateKey cryptox.WrappedKey

	IsAdmin          bool
	IsSuspended      bool
	SuspensionReason string

	CreatedAt time.Time
}

// PublicView is the externally visible projection of a User. It never
// includes the verifier or wrapped-key material.
type PublicView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PublicKeyPEM     string    `json:"public_key"`
	IsAdmin          bool      `json:"is_admin"`
	IsSuspended      bool      `json:"is_suspended"`
	SuspensionReason string    `json:"suspension_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Public returns the external view of the user.
func (u *User) Public() PublicView {
	return PublicView{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		PublicKeyPEM:     string(u.PublicKeyPEM),
		IsAdmin:          u.IsAdmin,
		IsSuspended:      u.IsSuspended,
		SuspensionReason: u.SuspensionReason,
		CreatedAt:        u.CreatedAt,
	}
}
