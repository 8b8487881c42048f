// Package users provides the identity repository: storage and lookup of
// user records including published key material and account status.
package users

import (
	"context"

	"github.com/sealedchat/sealedchat/internal/server/models"
)

// Repository is the storage contract for identity records.
type Repository interface {
	// Create inserts a new user. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by normalized (lower-cased) email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by id.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// List returns a page of users ordered by creation time descending,
	// optionally filtered by a case-insensitive name/email substring, plus
	// the total count matching the filter.
	List(ctx context.Context, offset, limit int, search string) ([]*models.User, int64, error)

	// Update rewrites the mutable profile fields (name, email, admin and
	// suspension state) of an existing user in one statement.
	Update(ctx context.Context, user *models.User) error

	// SetSuspended flips the suspension flag and reason atomically.
	SetSuspended(ctx context.Context, id string, suspended bool, reason string) error

	// Delete removes a non-admin user. Deleting an admin or an unknown id
	// yields common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
