package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeminiChat_RoleMapping(t *testing.T) {
	var gotBody geminiRequest
	var gotPath, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": "reply"}},
				}},
			},
		})
	}))
	defer srv.Close()

	p := NewGemini(srv.URL, "g-key", srv.Client())
	resp, err := p.Chat(context.Background(), ChatRequest{
		Model: "gemini-1.5-pro",
		Messages: []ChatMessage{
			{Role: "system", Content: "be terse"},
			{Role: "user", Content: "q1"},
			{Role: "assistant", Content: "a1"},
			{Role: "user", Content: "q2"},
		},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if gotPath != "/models/gemini-1.5-pro:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "g-key" {
		t.Errorf("key = %q", gotKey)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "be terse" {
		t.Errorf("systemInstruction = %+v", gotBody.SystemInstruction)
	}
	if len(gotBody.Contents) != 3 {
		t.Fatalf("contents = %d, want 3 (system lifted out)", len(gotBody.Contents))
	}
	if gotBody.Contents[1].Role != "model" {
		t.Errorf("assistant role mapped to %q, want model", gotBody.Contents[1].Role)
	}
	if resp.Content != "reply" {
		t.Errorf("content = %q", resp.Content)
	}
}
