package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ylbabygo/xuekework/internal/models"
)

var ErrAIToolNotFound = errors.New("ai tool not found")

type AIToolRepository struct {
	pool *pgxpool.Pool
}

func NewAIToolRepository(pool *pgxpool.Pool) *AIToolRepository {
	return &AIToolRepository{pool: pool}
}

func (r *AIToolRepository) Create(ctx context.Context, tool models.AITool) error {
	const query = `
		INSERT INTO ai_tools (id, user_id, name, url, category, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		tool.ID, tool.UserID, tool.Name, tool.URL, tool.Category, tool.Description, tool.Tags)
	return err
}

func (r *AIToolRepository) ListByUser(ctx context.Context, userID string, category string) ([]models.AITool, error) {
	const query = `
		SELECT id, user_id, name, url, category, description, tags, created_at, updated_at
		FROM ai_tools
		WHERE user_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []models.AITool
	for rows.Next() {
		var tool models.AITool
		if err := rows.Scan(
			&tool.ID,
			&tool.UserID,
			&tool.Name,
			&tool.URL,
			&tool.Category,
			&tool.Description,
			&tool.Tags,
			&tool.CreatedAt,
			&tool.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, rows.Err()
}

func (r *AIToolRepository) GetByUser(ctx context.Context, id string, userID string) (models.AITool, error) {
	const query = `
		SELECT id, user_id, name, url, category, description, tags, created_at, updated_at
		FROM ai_tools
		WHERE id = $1 AND user_id = $2
	`

	row := r.pool.QueryRow(ctx, query, id, userID)
	var tool models.AITool
	if err := row.Scan(
		&tool.ID,
		&tool.UserID,
		&tool.Name,
		&tool.URL,
		&tool.Category,
		&tool.Description,
		&tool.Tags,
		&tool.CreatedAt,
		&tool.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AITool{}, ErrAIToolNotFound
		}
		return models.AITool{}, err
	}
	return tool, nil
}

func (r *AIToolRepository) Update(ctx context.Context, tool models.AITool) error {
	const query = `
		UPDATE ai_tools
		SET name = $3, url = $4, category = $5, description = $6, tags = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmd, err := r.pool.Exec(ctx, query,
		tool.ID, tool.UserID, tool.Name, tool.URL, tool.Category, tool.Description, tool.Tags)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAIToolNotFound
	}
	return nil
}

func (r *AIToolRepository) Delete(ctx context.Context, id string, userID string) error {
	const query = `DELETE FROM ai_tools WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAIToolNotFound
	}
	return nil
}
