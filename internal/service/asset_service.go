package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ylbabygo/xuekework/internal/config"
	"github.com/ylbabygo/xuekework/internal/ids"
	"github.com/ylbabygo/xuekework/internal/media/sniffer"
	"github.com/ylbabygo/xuekework/internal/media/svg"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/repository"
	"github.com/ylbabygo/xuekework/internal/storage"
)

type AssetService struct {
	assets *repository.AssetRepository
	store  *storage.ObjectStore
	queue  *redis.Client
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAssetService(
	assets *repository.AssetRepository,
	store *storage.ObjectStore,
	queue *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AssetService {
	return &AssetService{
		assets: assets,
		store:  store,
		queue:  queue,
		cfg:    cfg,
		log:    log,
	}
}

type UploadInput struct {
	User     models.User
	File     multipart.File
	Header   *multipart.FileHeader
	Name     string
	Category string
	Tags     []string
}

type UploadResult struct {
	Asset models.Asset
	URL   string
}

func (s *AssetService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.File == nil || input.Header == nil {
		return UploadResult{}, errors.New("invalid file payload")
	}

	data, err := io.ReadAll(input.File)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return UploadResult{}, errors.New("empty file")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}

	result, err := sniffer.DetectHead(head)
	if err != nil {
		return UploadResult{}, fmt.Errorf("detect type: %w", err)
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(input.Header.Header))
	if declared != "" && declared != result.MIME {
		return UploadResult{}, fmt.Errorf("content type mismatch: declared %s, actual %s", declared, result.MIME)
	}

	if result.Kind == sniffer.KindSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			return UploadResult{}, fmt.Errorf("sanitize svg: %w", err)
		}
		data = clean
	}

	name := input.Name
	if name == "" {
		name = input.Header.Filename
	}

	assetID := ids.New()
	objectKey := s.buildObjectKey(assetID, string(result.Kind))

	size, err := s.store.Put(ctx, objectKey, bytes.NewReader(data), int64(len(data)), result.MIME)
	if err != nil {
		return UploadResult{}, err
	}

	sum := sha256.Sum256(data)

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	asset := models.Asset{
		ID:        assetID,
		UserID:    input.User.ID,
		Name:      name,
		Category:  input.Category,
		Tags:      tags,
		Bucket:    s.store.AssetBucket(),
		ObjectKey: objectKey,
		MimeType:  result.MIME,
		SizeBytes: size,
		Checksum:  sum[:],
		Status:    models.AssetStatusProcessing,
	}
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	if err := s.assets.Create(ctx, asset); err != nil {
		return UploadResult{}, fmt.Errorf("save metadata: %w", err)
	}

	if err := s.enqueueIngest(ctx, asset); err != nil {
		s.log.Warn().Err(err).Str("asset_id", asset.ID).Msg("enqueue ingest failed")
	}

	return UploadResult{
		Asset: asset,
		URL:   s.store.PublicURL(asset.Bucket, asset.ObjectKey),
	}, nil
}

func (s *AssetService) URL(asset models.Asset) string {
	return s.store.PublicURL(asset.Bucket, asset.ObjectKey)
}

func (s *AssetService) buildObjectKey(assetID string, ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s.%s", assetID, ext))
}

func (s *AssetService) enqueueIngest(ctx context.Context, asset models.Asset) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Redis.Stream,
		Values: map[string]any{
			"type":    "asset:ingest",
			"assetId": asset.ID,
		},
	}).Result()
	return err
}
