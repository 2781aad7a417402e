package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ylbabygo/xuekework/internal/models"
)

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns stored settings, or defaults when the user never saved any.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (models.UserSettings, error) {
	const query = `
		SELECT user_id, theme, language, default_model, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	row := r.pool.QueryRow(ctx, query, userID)
	var settings models.UserSettings
	if err := row.Scan(
		&settings.UserID,
		&settings.Theme,
		&settings.Language,
		&settings.DefaultModel,
		&settings.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserSettings{
				UserID:   userID,
				Theme:    "light",
				Language: "zh-CN",
			}, nil
		}
		return models.UserSettings{}, err
	}
	return settings, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings models.UserSettings) error {
	const query = `
		INSERT INTO user_settings (user_id, theme, language, default_model, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			theme = EXCLUDED.theme,
			language = EXCLUDED.language,
			default_model = EXCLUDED.default_model,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		settings.UserID,
		settings.Theme,
		settings.Language,
		settings.DefaultModel,
	)
	return err
}
