package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/middleware"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/repository"
	"github.com/ylbabygo/xuekework/internal/service"
)

type assetResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Status    string    `json:"status"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h HandlerSet) assetResponse(asset models.Asset) assetResponse {
	tags := asset.Tags
	if tags == nil {
		tags = []string{}
	}
	return assetResponse{
		ID:        asset.ID,
		Name:      asset.Name,
		Category:  asset.Category,
		Tags:      tags,
		MimeType:  asset.MimeType,
		SizeBytes: asset.SizeBytes,
		Status:    string(asset.Status),
		URL:       h.assetService.URL(asset),
		CreatedAt: asset.CreatedAt,
		UpdatedAt: asset.UpdatedAt,
	}
}

func (h HandlerSet) UploadAsset(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "缺少上传文件")
		return
	}
	defer file.Close()

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	result, err := h.assetService.Upload(c.Request.Context(), service.UploadInput{
		User:     user,
		File:     file,
		Header:   header,
		Name:     c.PostForm("name"),
		Category: c.PostForm("category"),
		Tags:     tags,
	})
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ok(c, h.assetResponse(result.Asset))
}

func (h HandlerSet) ListAssets(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	limit, offset := pageParams(c)

	assets, err := h.assets.ListByUser(c.Request.Context(), user.ID,
		c.Query("category"), c.Query("keyword"), limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]assetResponse, 0, len(assets))
	for _, asset := range assets {
		items = append(items, h.assetResponse(asset))
	}
	ok(c, items)
}

func (h HandlerSet) GetAsset(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	asset, err := h.assets.GetByUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			fail(c, http.StatusNotFound, "素材不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, h.assetResponse(asset))
}

type updateAssetRequest struct {
	Name     string   `json:"name" binding:"required"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (h HandlerSet) UpdateAsset(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	err := h.assets.Update(c.Request.Context(), c.Param("id"), user.ID, req.Name, req.Category, req.Tags)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			fail(c, http.StatusNotFound, "素材不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	asset, err := h.assets.GetByUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, h.assetResponse(asset))
}

func (h HandlerSet) DeleteAsset(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	err := h.assets.SoftDelete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			fail(c, http.StatusNotFound, "素材不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "素材已删除")
}
