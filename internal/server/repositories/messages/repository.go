// Package messages stores immutable encrypted envelopes. Rows are only ever
// inserted and read; there is no update or delete path.
package messages

import (
	"context"

	"github.com/sealedchat/sealedchat/internal/server/models"
)

// Repository is the storage contract for message envelopes.
type Repository interface {
	// Create inserts an envelope, letting the store assign the creation
	// timestamp and insertion sequence.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)

	// ListThread returns every envelope between the unordered pair {a, b}
	// in ascending creation-time order, ties broken by insertion order.
	ListThread(ctx context.Context, a, b string) ([]*models.Message, error)
}
