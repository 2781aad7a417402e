package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ylbabygo/xuekework/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

func (r *ConversationRepository) Create(ctx context.Context, conv models.Conversation) error {
	const query = `
		INSERT INTO conversations (id, user_id, title, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, conv.ID, conv.UserID, conv.Title, conv.Model)
	return err
}

// GetByUser fetches one conversation scoped to its owner. Ownership is part
// of the predicate so one tenant can never read another tenant's thread.
func (r *ConversationRepository) GetByUser(ctx context.Context, id string, userID string) (models.Conversation, error) {
	const query = `
		SELECT id, user_id, title, model, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND user_id = $2
	`

	row := r.pool.QueryRow(ctx, query, id, userID)
	var conv models.Conversation
	if err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Model,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Conversation{}, ErrConversationNotFound
		}
		return models.Conversation{}, err
	}
	return conv, nil
}

func (r *ConversationRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.Conversation, error) {
	const query = `
		SELECT id, user_id, title, model, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.Title,
			&conv.Model,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

func (r *ConversationRepository) UpdateTitle(ctx context.Context, id string, userID string, title string) error {
	const query = `
		UPDATE conversations SET title = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmd, err := r.pool.Exec(ctx, query, id, userID, title)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *ConversationRepository) Touch(ctx context.Context, id string) error {
	const query = `UPDATE conversations SET updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *ConversationRepository) Delete(ctx context.Context, id string, userID string) error {
	const query = `DELETE FROM conversations WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}
