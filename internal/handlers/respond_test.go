package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/middleware"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=50", 50, 0},
		{"?limit=500", 20, 0},  // over the cap falls back to default
		{"?limit=-3", 20, 0},   // nonsense falls back too
		{"?page=3", 20, 40},
		{"?page=2&limit=10", 10, 10},
		{"?page=0", 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)

			limit, offset := pageParams(c)
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("pageParams(%q) = (%d, %d), want (%d, %d)",
					tc.query, limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestEnvelopeShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ok omits message", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		ok(c, map[string]string{"id": "x"})

		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body["success"] != true {
			t.Error("success should be true")
		}
		if _, exists := body["message"]; exists {
			t.Error("message should be omitted on plain ok")
		}
	})

	t.Run("fail omits data", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		fail(c, http.StatusNotFound, "对话不存在")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body["success"] != false {
			t.Error("success should be false")
		}
		if body["message"] != "对话不存在" {
			t.Errorf("message = %v", body["message"])
		}
		if _, exists := body["data"]; exists {
			t.Error("data should be omitted on failure")
		}
	})

	t.Run("fail carries the request id", func(t *testing.T) {
		r := gin.New()
		r.Use(middleware.RequestID())
		r.GET("/x", func(c *gin.Context) {
			fail(c, http.StatusNotFound, "笔记不存在")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		id, _ := body["request_id"].(string)
		if id == "" {
			t.Fatal("failure envelope should carry a request id")
		}
		if got := w.Header().Get("X-Request-Id"); got != id {
			t.Errorf("header id %q != envelope id %q", got, id)
		}
	})
}

func TestHealth_NoDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := HandlerSet{}
	r := gin.New()
	r.GET("/healthz", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when no backends are wired", w.Code)
	}
}
