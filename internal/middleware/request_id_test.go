package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ylbabygo/xuekework/internal/models"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		seen = RequestIDFrom(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if seen == "" {
		t.Fatal("handler should see a generated id")
	}
	if got := w.Header().Get("X-Request-Id"); got != seen {
		t.Errorf("response header id = %q, handler saw %q", got, seen)
	}
}

func TestRequestID_HonorsInboundID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "frontend-trace-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "frontend-trace-7" {
		t.Errorf("id = %q, inbound id should survive", got)
	}
}

func TestLogger_EmitsRequestAndUserFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestID(), Logger(log))
	r.GET("/x", func(c *gin.Context) {
		c.Set(ctxKeyUser, models.User{ID: "user-42", Username: "zhang"})
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if !strings.Contains(line, `"request_id":"rid-1"`) {
		t.Errorf("log line missing request id: %s", line)
	}
	if !strings.Contains(line, `"user_id":"user-42"`) {
		t.Errorf("log line missing user id: %s", line)
	}
}
