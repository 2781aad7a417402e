package service

import (
	"testing"

	"github.com/ylbabygo/xuekework/internal/models"
)

func TestBuildChatWindow_Truncates(t *testing.T) {
	var history []models.Message
	for i := 0; i < historyWindow+10; i++ {
		history = append(history, models.Message{Role: models.MessageRoleUser, Content: "old"})
	}
	latest := models.Message{Role: models.MessageRoleUser, Content: "latest"}

	window := buildChatWindow(history, latest)
	if len(window) != historyWindow {
		t.Fatalf("window = %d messages, want %d", len(window), historyWindow)
	}
	if window[len(window)-1].Content != "latest" {
		t.Error("latest message must be last in the window")
	}
}

func TestBuildChatWindow_Short(t *testing.T) {
	history := []models.Message{
		{Role: models.MessageRoleUser, Content: "q"},
		{Role: models.MessageRoleAssistant, Content: "a"},
	}
	latest := models.Message{Role: models.MessageRoleUser, Content: "q2"}

	window := buildChatWindow(history, latest)
	if len(window) != 3 {
		t.Fatalf("window = %d messages, want 3", len(window))
	}
	if window[1].Role != "assistant" {
		t.Errorf("role = %q, want assistant", window[1].Role)
	}
}
