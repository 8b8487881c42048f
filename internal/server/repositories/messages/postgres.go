package messages

import (
	"context"
	"fmt"

	"github.com/sealedchat/sealedchat/internal/dbx"
	"github.com/sealedchat/sealedchat/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id,
			sender_ciphertext, receiver_ciphertext, attachment_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		msg.ID, msg.SenderID, msg.ReceiverID,
		msg.SenderCiphertext, msg.ReceiverCiphertext, msg.AttachmentKey,
	).Scan(&msg.Seq, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

func (r *PostgresRepository) ListThread(ctx context.Context, a, b string) ([]*models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, sender_ciphertext, receiver_ciphertext,
			attachment_key, created_at, seq
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at, seq
	`
	rows, err := r.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.ReceiverID,
			&msg.SenderCiphertext, &msg.ReceiverCiphertext,
			&msg.AttachmentKey, &msg.CreatedAt, &msg.Seq,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
