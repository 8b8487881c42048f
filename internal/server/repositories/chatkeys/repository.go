// Package chatkeys stores pairwise chat-key records. Uniqueness per
// unordered pair is a storage-level constraint, not an application check.
package chatkeys

import (
	"context"

	"github.com/sealedchat/sealedchat/internal/server/models"
)

// Repository is the storage contract for chat-key pairings.
type Repository interface {
	// Create inserts a pairing. A concurrent or previous insert for the same
	// pair key yields common.ErrorAlreadyExists; callers handle the race by
	// re-reading the existing row.
	Create(ctx context.Context, key *models.ChatKey) error

	// GetByPairKey returns the pairing for a canonical pair key, or
	// common.ErrorNotFound.
	GetByPairKey(ctx context.Context, pairKey string) (*models.ChatKey, error)
}
