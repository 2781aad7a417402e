package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ylbabygo/xuekework/internal/models"
)

var ErrLearningResourceNotFound = errors.New("learning resource not found")

type LearningRepository struct {
	pool *pgxpool.Pool
}

func NewLearningRepository(pool *pgxpool.Pool) *LearningRepository {
	return &LearningRepository{pool: pool}
}

func (r *LearningRepository) Create(ctx context.Context, res models.LearningResource) error {
	const query = `
		INSERT INTO learning_resources (id, user_id, title, url, category, description, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		res.ID, res.UserID, res.Title, res.URL, res.Category, res.Description, res.Progress)
	return err
}

func (r *LearningRepository) ListByUser(ctx context.Context, userID string, category string, keyword string, limit int, offset int) ([]models.LearningResource, error) {
	const query = `
		SELECT id, user_id, title, url, category, description, progress, created_at, updated_at
		FROM learning_resources
		WHERE user_id = $1
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR title ILIKE '%' || $3 || '%')
		ORDER BY updated_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, userID, category, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []models.LearningResource
	for rows.Next() {
		var res models.LearningResource
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.Title,
			&res.URL,
			&res.Category,
			&res.Description,
			&res.Progress,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *LearningRepository) GetByUser(ctx context.Context, id string, userID string) (models.LearningResource, error) {
	const query = `
		SELECT id, user_id, title, url, category, description, progress, created_at, updated_at
		FROM learning_resources
		WHERE id = $1 AND user_id = $2
	`

	row := r.pool.QueryRow(ctx, query, id, userID)
	var res models.LearningResource
	if err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Title,
		&res.URL,
		&res.Category,
		&res.Description,
		&res.Progress,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LearningResource{}, ErrLearningResourceNotFound
		}
		return models.LearningResource{}, err
	}
	return res, nil
}

func (r *LearningRepository) Update(ctx context.Context, res models.LearningResource) error {
	const query = `
		UPDATE learning_resources
		SET title = $3, url = $4, category = $5, description = $6, progress = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmd, err := r.pool.Exec(ctx, query,
		res.ID, res.UserID, res.Title, res.URL, res.Category, res.Description, res.Progress)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLearningResourceNotFound
	}
	return nil
}

func (r *LearningRepository) Delete(ctx context.Context, id string, userID string) error {
	const query = `DELETE FROM learning_resources WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLearningResourceNotFound
	}
	return nil
}
