package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Baidu speaks the ERNIE (wenxinworkshop) chat API, which authenticates with
// an access token in the query string and returns the reply in a flat
// "result" field.
type Baidu struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

func NewBaidu(baseURL string, accessKey string, httpClient *http.Client) *Baidu {
	return &Baidu{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accessKey:  accessKey,
		httpClient: httpClient,
	}
}

func (p *Baidu) Name() string {
	return "baidu"
}

type baiduRequest struct {
	Messages []ChatMessage `json:"messages"`
	System   string        `json:"system,omitempty"`
}

type baiduResponse struct {
	Result       string `json:"result"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_msg"`
}

func (p *Baidu) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	payload := baiduRequest{}
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			payload.System = msg.Content
			continue
		}
		payload.Messages = append(payload.Messages, msg)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rpc/2.0/ai_custom/v1/wenxinworkshop/chat/%s?access_token=%s",
		p.baseURL, url.PathEscape(req.Model), url.QueryEscape(p.accessKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("%w: baidu: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("read response: %w", err)
	}

	var parsed baiduResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ChatResponse{}, fmt.Errorf("%w: baidu: decode: %v", ErrProviderFailure, err)
	}

	// ERNIE reports errors with HTTP 200 and an error_code field.
	if parsed.ErrorCode != 0 {
		return ChatResponse{}, fmt.Errorf("%w: baidu: %s", ErrProviderFailure, parsed.ErrorMessage)
	}
	if resp.StatusCode != http.StatusOK {
		return ChatResponse{}, fmt.Errorf("%w: baidu: %s", ErrProviderFailure, http.StatusText(resp.StatusCode))
	}

	return ChatResponse{
		Content: parsed.Result,
		Model:   req.Model,
	}, nil
}
