package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenAICompatible speaks the /chat/completions dialect shared by OpenAI,
// DeepSeek, Kimi (Moonshot) and Zhipu.
type OpenAICompatible struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAICompatible(name string, baseURL string, apiKey string, httpClient *http.Client) *OpenAICompatible {
	return &OpenAICompatible{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (p *OpenAICompatible) Name() string {
	return p.name
}

type openAIChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAICompatible) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	body, err := json.Marshal(openAIChatRequest{
		Model:    req.Model,
		Messages: req.Messages,
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("%w: %s: %v", ErrProviderFailure, p.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("read response: %w", err)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ChatResponse{}, fmt.Errorf("%w: %s: decode: %v", ErrProviderFailure, p.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return ChatResponse{}, fmt.Errorf("%w: %s: %s", ErrProviderFailure, p.name, msg)
	}

	if len(parsed.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("%w: %s: empty choices", ErrProviderFailure, p.name)
	}

	model := parsed.Model
	if model == "" {
		model = req.Model
	}

	return ChatResponse{
		Content: parsed.Choices[0].Message.Content,
		Model:   model,
	}, nil
}
