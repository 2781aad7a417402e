package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/ylbabygo/xuekework/internal/ai"
	"github.com/ylbabygo/xuekework/internal/repository"
)

var ErrEmptyPrompt = errors.New("prompt required")

type ContentService struct {
	templates *repository.TemplateRepository
	registry  *ai.Registry
	log       zerolog.Logger
}

func NewContentService(templates *repository.TemplateRepository, registry *ai.Registry, log zerolog.Logger) *ContentService {
	return &ContentService{
		templates: templates,
		registry:  registry,
		log:       log,
	}
}

type GenerateInput struct {
	UserID     string
	TemplateID string
	Prompt     string
	Variables  map[string]string
	Model      string
}

type GenerateResult struct {
	Prompt  string
	Content string
	Model   string
}

// Generate renders the prompt (from a stored template when TemplateID is
// given, else the raw prompt) and sends it to the selected model.
func (s *ContentService) Generate(ctx context.Context, input GenerateInput) (GenerateResult, error) {
	prompt := input.Prompt

	if input.TemplateID != "" {
		tpl, err := s.templates.GetByUser(ctx, input.TemplateID, input.UserID)
		if err != nil {
			return GenerateResult{}, err
		}
		prompt, err = renderTemplate(tpl.Body, input.Variables)
		if err != nil {
			return GenerateResult{}, err
		}
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return GenerateResult{}, ErrEmptyPrompt
	}

	reply, err := s.dispatch(ctx, input.Model, prompt)
	if err != nil {
		return GenerateResult{}, err
	}

	return GenerateResult{
		Prompt:  prompt,
		Content: reply.Content,
		Model:   reply.Model,
	}, nil
}

type OptimizeInput struct {
	Text        string
	Instruction string
	Model       string
}

func (s *ContentService) Optimize(ctx context.Context, input OptimizeInput) (GenerateResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return GenerateResult{}, ErrEmptyPrompt
	}

	instruction := strings.TrimSpace(input.Instruction)
	if instruction == "" {
		instruction = "优化以下内容的表达, 保持原意不变"
	}

	prompt := fmt.Sprintf("%s:\n\n%s", instruction, text)

	reply, err := s.dispatch(ctx, input.Model, prompt)
	if err != nil {
		return GenerateResult{}, err
	}

	return GenerateResult{
		Prompt:  prompt,
		Content: reply.Content,
		Model:   reply.Model,
	}, nil
}

func (s *ContentService) dispatch(ctx context.Context, model string, prompt string) (ai.ChatResponse, error) {
	provider, err := s.registry.ForModel(model)
	if err != nil {
		return ai.ChatResponse{}, err
	}

	return provider.Chat(ctx, ai.ChatRequest{
		Model: model,
		Messages: []ai.ChatMessage{
			{Role: "user", Content: prompt},
		},
	})
}

func renderTemplate(body string, variables map[string]string) (string, error) {
	tpl, err := template.New("content").Option("missingkey=zero").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	vars := variables
	if vars == nil {
		vars = map[string]string{}
	}

	var out strings.Builder
	if err := tpl.Execute(&out, vars); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out.String(), nil
}
