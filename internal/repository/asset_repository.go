package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ylbabygo/xuekework/internal/models"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetRepository struct {
	pool *pgxpool.Pool
}

func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

const assetColumns = `id, user_id, name, category, tags, bucket, object_key, mime_type, size_bytes, checksum, status, deleted_at, created_at, updated_at`

func scanAsset(row pgx.Row) (models.Asset, error) {
	var asset models.Asset
	if err := row.Scan(
		&asset.ID,
		&asset.UserID,
		&asset.Name,
		&asset.Category,
		&asset.Tags,
		&asset.Bucket,
		&asset.ObjectKey,
		&asset.MimeType,
		&asset.SizeBytes,
		&asset.Checksum,
		&asset.Status,
		&asset.DeletedAt,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Asset{}, ErrAssetNotFound
		}
		return models.Asset{}, err
	}
	return asset, nil
}

func (r *AssetRepository) Create(ctx context.Context, asset models.Asset) error {
	const query = `
		INSERT INTO assets (
			id, user_id, name, category, tags, bucket, object_key, mime_type,
			size_bytes, checksum, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.UserID,
		asset.Name,
		asset.Category,
		asset.Tags,
		asset.Bucket,
		asset.ObjectKey,
		asset.MimeType,
		asset.SizeBytes,
		asset.Checksum,
		asset.Status,
	)
	return err
}

func (r *AssetRepository) GetByUser(ctx context.Context, id string, userID string) (models.Asset, error) {
	const query = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	return scanAsset(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (models.Asset, error) {
	const query = `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return scanAsset(r.pool.QueryRow(ctx, query, id))
}

// ListByUser filters on category and a case-insensitive name keyword; empty
// filter values match everything.
func (r *AssetRepository) ListByUser(ctx context.Context, userID string, category string, keyword string, limit int, offset int) ([]models.Asset, error) {
	const query = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE user_id = $1
		  AND deleted_at IS NULL
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, userID, category, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) Update(ctx context.Context, id string, userID string, name string, category string, tags []string) error {
	const query = `
		UPDATE assets
		SET name = $3, category = $4, tags = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, userID, name, category, tags)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *AssetRepository) SoftDelete(ctx context.Context, id string, userID string) error {
	const query = `
		UPDATE assets
		SET status = 'deleted', deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *AssetRepository) MarkReady(ctx context.Context, id string, checksum []byte, sizeBytes int64) error {
	const query = `
		UPDATE assets
		SET status = 'ready', checksum = $2, size_bytes = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, checksum, sizeBytes)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

// ListDeletedBefore returns soft-deleted assets whose grace period has
// passed; the worker removes their objects and purges the rows.
func (r *AssetRepository) ListDeletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Asset, error) {
	const query = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE deleted_at IS NOT NULL AND deleted_at < $1
		ORDER BY deleted_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) HardDelete(ctx context.Context, id string) error {
	const query = `DELETE FROM assets WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
