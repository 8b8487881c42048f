// Package common defines shared constants and sentinel errors used across
// SealedChat components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Authentication errors. Unknown email and wrong password collapse into
	// ErrorInvalidCredentials so callers cannot tell the cases apart.
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Private-key unwrap failure. Deliberately opaque: padding, decryption
	// and parse failures all surface as this single value.
	ErrorWrongPassphrase = errors.New("wrong passphrase")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Authorization errors.
	ErrorAdminRequired = errors.New("admin access required")
)

// SuspendedError reports that the account resolved from a token is currently
// suspended. The reason is intentionally disclosed to the caller; this is the
// one exception to the generic-error policy.
type SuspendedError struct {
	Reason string
}

func (e *SuspendedError) Error() string {
	if e.Reason == "" {
		return "account suspended"
	}
	return fmt.Sprintf("account suspended: %s", e.Reason)
}
