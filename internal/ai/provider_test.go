package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ylbabygo/xuekework/internal/config"
)

func TestRegistryRoutesModels(t *testing.T) {
	reg, err := NewRegistry(config.AIConfig{
		RequestTimeout: time.Second,
		Providers: map[string]config.ProviderConfig{
			"openai":   {APIKey: "k1", Models: []string{"gpt-4o", "gpt-4o-mini"}},
			"deepseek": {APIKey: "k2", Models: []string{"deepseek-chat"}},
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	provider, err := reg.ForModel("deepseek-chat")
	if err != nil {
		t.Fatalf("ForModel: %v", err)
	}
	if provider.Name() != "deepseek" {
		t.Errorf("provider = %q, want deepseek", provider.Name())
	}

	if _, err := reg.ForModel("no-such-model"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("unknown model error = %v, want ErrUnknownModel", err)
	}

	models := reg.Models()
	if len(models) != 3 {
		t.Fatalf("models = %d, want 3", len(models))
	}
	// Sorted by provider then id.
	if models[0].ID != "deepseek-chat" {
		t.Errorf("first model = %q, want deepseek-chat", models[0].ID)
	}
}

func TestRegistryRejectsUnknownProvider(t *testing.T) {
	_, err := NewRegistry(config.AIConfig{
		Providers: map[string]config.ProviderConfig{
			"wat": {APIKey: "k", BaseURL: "http://localhost", Models: []string{"m"}},
		},
	})
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestOpenAICompatibleChat(t *testing.T) {
	var gotAuth string
	var gotBody openAIChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-2024",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "你好"}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAICompatible("openai", srv.URL, "sk-test", srv.Client())
	resp, err := p.Chat(context.Background(), ChatRequest{
		Model: "gpt-4o",
		Messages: []ChatMessage{
			{Role: "user", Content: "hi"},
		},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o" {
		t.Errorf("request model = %q", gotBody.Model)
	}
	if resp.Content != "你好" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Model != "gpt-4o-2024" {
		t.Errorf("model = %q, want upstream model echoed", resp.Model)
	}
}

func TestOpenAICompatibleChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	p := NewOpenAICompatible("openai", srv.URL, "sk-test", srv.Client())
	_, err := p.Chat(context.Background(), ChatRequest{Model: "gpt-4o"})
	if !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
}

func TestAnthropicChat_LiftsSystemMessage(t *testing.T) {
	var gotBody anthropicRequest
	var gotVersion, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "claude-3-5-sonnet",
			"content": []map[string]string{
				{"type": "text", "text": "answer "},
				{"type": "text", "text": "parts"},
			},
		})
	}))
	defer srv.Close()

	p := NewAnthropic(srv.URL, "ak-test", srv.Client())
	resp, err := p.Chat(context.Background(), ChatRequest{
		Model: "claude-3-5-sonnet",
		Messages: []ChatMessage{
			{Role: "system", Content: "you are helpful"},
			{Role: "user", Content: "hello"},
		},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if gotVersion != anthropicVersion {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if gotKey != "ak-test" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotBody.System != "you are helpful" {
		t.Errorf("system = %q, want lifted system prompt", gotBody.System)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, system should not remain inline", gotBody.Messages)
	}
	if resp.Content != "answer parts" {
		t.Errorf("content = %q, want concatenated text blocks", resp.Content)
	}
}

func TestBaiduChat_ErrorCodeInOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "bd-token" {
			t.Errorf("access_token = %q", r.URL.Query().Get("access_token"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error_code": 110,
			"error_msg":  "Access token invalid",
		})
	}))
	defer srv.Close()

	p := NewBaidu(srv.URL, "bd-token", srv.Client())
	_, err := p.Chat(context.Background(), ChatRequest{Model: "ernie-4.0"})
	if !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure for error_code in 200 body", err)
	}
}

func TestBaiduChat_Result(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": "回答"})
	}))
	defer srv.Close()

	p := NewBaidu(srv.URL, "bd-token", srv.Client())
	resp, err := p.Chat(context.Background(), ChatRequest{
		Model:    "ernie-4.0",
		Messages: []ChatMessage{{Role: "user", Content: "问题"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "回答" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Model != "ernie-4.0" {
		t.Errorf("model = %q, want request model", resp.Model)
	}
}
