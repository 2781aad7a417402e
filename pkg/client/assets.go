package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type AssetService struct {
	client *Client
}

type Asset struct {
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

type UploadInput struct {
	Filename string
	Content  io.Reader
	Name     string
	Category string
	Tags     []string
}

// Upload sends a multipart form. It bypasses the JSON helpers but still
// flows through the shared request path for auth and error handling.
func (s *AssetService) Upload(ctx context.Context, input UploadInput) (Asset, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", input.Filename)
	if err != nil {
		return Asset{}, &Error{Kind: KindValidation, Message: err.Error(), cause: err}
	}
	if _, err := io.Copy(part, input.Content); err != nil {
		return Asset{}, &Error{Kind: KindValidation, Message: fmt.Sprintf("read upload: %v", err), cause: err}
	}

	if input.Name != "" {
		_ = writer.WriteField("name", input.Name)
	}
	if input.Category != "" {
		_ = writer.WriteField("category", input.Category)
	}
	if len(input.Tags) > 0 {
		_ = writer.WriteField("tags", strings.Join(input.Tags, ","))
	}
	if err := writer.Close(); err != nil {
		return Asset{}, &Error{Kind: KindValidation, Message: err.Error(), cause: err}
	}

	var data json.RawMessage
	if err := s.client.do(ctx, http.MethodPost, "/assets/upload", nil, &buf, writer.FormDataContentType(), &data); err != nil {
		return Asset{}, err
	}

	var asset Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return Asset{}, &Error{Kind: KindServer, Message: fmt.Sprintf("decode response: %v", err), cause: err}
	}
	return asset, nil
}

type AssetFilter struct {
	Category string
	Keyword  string
	Page     int
	Limit    int
}

func (s *AssetService) List(ctx context.Context, filter AssetFilter) ([]Asset, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Keyword != "" {
		query.Set("keyword", filter.Keyword)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var assets []Asset
	err := s.client.get(ctx, "/assets", query, &assets)
	return assets, err
}

func (s *AssetService) Get(ctx context.Context, id string) (Asset, error) {
	var asset Asset
	err := s.client.get(ctx, "/assets/"+url.PathEscape(id), nil, &asset)
	return asset, err
}

type UpdateAssetInput struct {
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func (s *AssetService) Update(ctx context.Context, id string, input UpdateAssetInput) (Asset, error) {
	var asset Asset
	err := s.client.put(ctx, "/assets/"+url.PathEscape(id), input, &asset)
	return asset, err
}

func (s *AssetService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/assets/"+url.PathEscape(id))
}
