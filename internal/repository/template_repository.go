package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ylbabygo/xuekework/internal/models"
)

var ErrTemplateNotFound = errors.New("content template not found")

type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl models.ContentTemplate) error {
	const query = `
		INSERT INTO content_templates (id, user_id, name, description, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, tpl.ID, tpl.UserID, tpl.Name, tpl.Description, tpl.Body)
	return err
}

func (r *TemplateRepository) ListByUser(ctx context.Context, userID string) ([]models.ContentTemplate, error) {
	const query = `
		SELECT id, user_id, name, description, body, created_at, updated_at
		FROM content_templates
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.ContentTemplate
	for rows.Next() {
		var tpl models.ContentTemplate
		if err := rows.Scan(
			&tpl.ID,
			&tpl.UserID,
			&tpl.Name,
			&tpl.Description,
			&tpl.Body,
			&tpl.CreatedAt,
			&tpl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) GetByUser(ctx context.Context, id string, userID string) (models.ContentTemplate, error) {
	const query = `
		SELECT id, user_id, name, description, body, created_at, updated_at
		FROM content_templates
		WHERE id = $1 AND user_id = $2
	`

	row := r.pool.QueryRow(ctx, query, id, userID)
	var tpl models.ContentTemplate
	if err := row.Scan(
		&tpl.ID,
		&tpl.UserID,
		&tpl.Name,
		&tpl.Description,
		&tpl.Body,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ContentTemplate{}, ErrTemplateNotFound
		}
		return models.ContentTemplate{}, err
	}
	return tpl, nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id string, userID string) error {
	const query = `DELETE FROM content_templates WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
