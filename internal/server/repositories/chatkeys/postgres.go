package chatkeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sealedchat/sealedchat/internal/common"
	"github.com/sealedchat/sealedchat/internal/dbx"
	"github.com/sealedchat/sealedchat/internal/server/models"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, key *models.ChatKey) error {
	query := `
		INSERT INTO chat_keys (pair_key, user_a, user_b, ciphertext_a, ciphertext_b)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		key.PairKey, key.UserA, key.UserB, key.CiphertextA, key.CiphertextB)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByPairKey(ctx context.Context, pairKey string) (*models.ChatKey, error) {
	query := `
		SELECT pair_key, user_a, user_b, ciphertext_a, ciphertext_b
		FROM chat_keys WHERE pair_key = $1
	`
	key := &models.ChatKey{}
	err := r.db.QueryRowContext(ctx, query, pairKey).Scan(
		&key.PairKey, &key.UserA, &key.UserB, &key.CiphertextA, &key.CiphertextB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return key, nil
}
