// Package friendships stores the relation graph backing contact listing.
package friendships

import (
	"context"

	"github.com/sealedchat/sealedchat/internal/server/models"
)

// Repository is the storage contract for friendship relations.
type Repository interface {
	// Create inserts a relation. A second relation between the same
	// requester and recipient yields common.ErrorAlreadyExists.
	Create(ctx context.Context, f *models.Friendship) error

	// ListFriendIDs returns the ids of everyone with an accepted relation
	// to userID, in either direction.
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}
