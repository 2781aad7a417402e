package client

import (
	"context"
	"net/url"
	"time"
)

type ContentService struct {
	client *Client
}

type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *ContentService) ListTemplates(ctx context.Context) ([]Template, error) {
	var templates []Template
	err := s.client.get(ctx, "/content/templates", nil, &templates)
	return templates, err
}

type CreateTemplateInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Body        string `json:"body"`
}

func (s *ContentService) CreateTemplate(ctx context.Context, input CreateTemplateInput) (Template, error) {
	var tpl Template
	err := s.client.post(ctx, "/content/templates", input, &tpl)
	return tpl, err
}

func (s *ContentService) DeleteTemplate(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/content/templates/"+url.PathEscape(id))
}

type GenerateInput struct {
	TemplateID string            `json:"template_id,omitempty"`
	Prompt     string            `json:"prompt,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	Model      string            `json:"model"`
}

type Generated struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// Generate runs a stored template (or raw prompt) through the chosen model.
func (s *ContentService) Generate(ctx context.Context, input GenerateInput) (Generated, error) {
	var out Generated
	err := s.client.post(ctx, "/content/generate", input, &out)
	return out, err
}

type OptimizeInput struct {
	Text        string `json:"text"`
	Instruction string `json:"instruction,omitempty"`
	Model       string `json:"model"`
}

func (s *ContentService) Optimize(ctx context.Context, input OptimizeInput) (Generated, error) {
	var out Generated
	err := s.client.post(ctx, "/content/optimize", input, &out)
	return out, err
}
