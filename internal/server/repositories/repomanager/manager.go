// Package repomanager wires repository constructors to a storage backend and
// exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/sealedchat/sealedchat/internal/dbx"
	"github.com/sealedchat/sealedchat/internal/server/repositories/chatkeys"
	"github.com/sealedchat/sealedchat/internal/server/repositories/friendships"
	"github.com/sealedchat/sealedchat/internal/server/repositories/messages"
	"github.com/sealedchat/sealedchat/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// a repository against either the pooled connection or a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	ChatKeys(db dbx.DBTX) chatkeys.Repository
	Messages(db dbx.DBTX) messages.Repository
	Friendships(db dbx.DBTX) friendships.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
