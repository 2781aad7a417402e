package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ylbabygo/xuekework/internal/config"
	"github.com/ylbabygo/xuekework/internal/repository"
	"github.com/ylbabygo/xuekework/internal/storage"
)

const cleanupBatchSize = 100

type Processor struct {
	assets   *repository.AssetRepository
	sessions *repository.SessionRepository
	store    *storage.ObjectStore
	cfg      *config.AppConfig
	logger   zerolog.Logger
}

type TaskPayload struct {
	Type    string `json:"type"`
	AssetID string `json:"assetId"`
}

func NewProcessor(
	assets *repository.AssetRepository,
	sessions *repository.SessionRepository,
	store *storage.ObjectStore,
	cfg *config.AppConfig,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		assets:   assets,
		sessions: sessions,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "asset:ingest":
		return p.handleIngest(ctx, payload)
	case "asset:cleanup":
		return p.handleCleanup(ctx)
	case "session:purge":
		return p.handleSessionPurge(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

// handleIngest verifies the uploaded object landed in storage and flips the
// asset to ready. Redelivery is safe: MarkReady is idempotent.
func (p *Processor) handleIngest(ctx context.Context, payload TaskPayload) error {
	asset, err := p.assets.GetByID(ctx, payload.AssetID)
	if err != nil {
		if err == repository.ErrAssetNotFound {
			p.logger.Warn().Str("asset_id", payload.AssetID).Msg("ingest for missing asset")
			return nil
		}
		return err
	}

	size, err := p.store.Stat(ctx, asset.Bucket, asset.ObjectKey)
	if err != nil {
		return fmt.Errorf("stat object %s/%s: %w", asset.Bucket, asset.ObjectKey, err)
	}

	if err := p.assets.MarkReady(ctx, asset.ID, asset.Checksum, size); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}

	p.logger.Info().
		Str("asset_id", asset.ID).
		Int64("size_bytes", size).
		Msg("asset ingested")
	return nil
}

// handleCleanup purges soft-deleted assets whose grace period elapsed, object
// first so a failed removal keeps the row for the next run.
func (p *Processor) handleCleanup(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-p.cfg.Queue.CleanupGrace)

	assets, err := p.assets.ListDeletedBefore(ctx, cutoff, cleanupBatchSize)
	if err != nil {
		return err
	}

	purged := 0
	for _, asset := range assets {
		if err := p.store.Remove(ctx, asset.Bucket, asset.ObjectKey); err != nil {
			p.logger.Error().Err(err).
				Str("asset_id", asset.ID).
				Msg("remove object failed")
			continue
		}
		if err := p.assets.HardDelete(ctx, asset.ID); err != nil {
			p.logger.Error().Err(err).
				Str("asset_id", asset.ID).
				Msg("hard delete failed")
			continue
		}
		purged++
	}

	p.logger.Info().Int("purged", purged).Msg("asset cleanup done")
	return nil
}

func (p *Processor) handleSessionPurge(ctx context.Context) error {
	deleted, err := p.sessions.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	p.logger.Info().Int64("deleted", deleted).Msg("expired sessions purged")
	return nil
}
