package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/security"
)

type fakeUsers struct {
	users map[string]models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return user, nil
}

type fakeSessions struct {
	sessions map[string]models.Session
	touched  []string
}

func (f *fakeSessions) GetByID(_ context.Context, id string) (models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return models.Session{}, errors.New("session not found")
	}
	return session, nil
}

func (f *fakeSessions) Touch(_ context.Context, sessionID string, _ string, _ string) error {
	f.touched = append(f.touched, sessionID)
	return nil
}

func newAuthFixture(status models.UserStatus) (*fakeUsers, *fakeSessions) {
	users := &fakeUsers{users: map[string]models.User{
		"user-1": {ID: "user-1", Username: "zhang", Role: models.UserRoleStandard, Status: status},
	}}
	sessions := &fakeSessions{sessions: map[string]models.Session{
		"session-1": {ID: "session-1", UserID: "user-1"},
	}}
	return users, sessions
}

func serveAuth(t *testing.T, secret string, users UserSource, sessions SessionSource, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", Auth(secret, users, sessions), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.ID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken(t *testing.T) {
	secret := "secret"
	users, sessions := newAuthFixture(models.UserStatusActive)

	token, err := security.GenerateAccessToken(secret, "user-1", "session-1", "standard_user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	w := serveAuth(t, secret, users, sessions, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if w.Body.String() != "user-1" {
		t.Errorf("body = %q, want user-1", w.Body.String())
	}
	if len(sessions.touched) != 1 || sessions.touched[0] != "session-1" {
		t.Errorf("session not touched: %v", sessions.touched)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	users, sessions := newAuthFixture(models.UserStatusActive)
	w := serveAuth(t, "secret", users, sessions, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	users, sessions := newAuthFixture(models.UserStatusActive)
	w := serveAuth(t, "secret", users, sessions, "Bearer not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuth_RevokedSession(t *testing.T) {
	secret := "secret"
	users, sessions := newAuthFixture(models.UserStatusActive)
	delete(sessions.sessions, "session-1")

	token, _ := security.GenerateAccessToken(secret, "user-1", "session-1", "standard_user", time.Hour)
	w := serveAuth(t, secret, users, sessions, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 after session revoked", w.Code)
	}
}

func TestAuth_SuspendedUser(t *testing.T) {
	secret := "secret"
	users, sessions := newAuthFixture(models.UserStatusSuspended)

	token, _ := security.GenerateAccessToken(secret, "user-1", "session-1", "standard_user", time.Hour)
	w := serveAuth(t, secret, users, sessions, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for suspended user", w.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(ctxKeyUser, models.User{ID: "u1", Role: models.UserRoleStandard, Status: models.UserStatusActive})
	}, RequireRoles(models.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for non-admin", w.Code)
	}
}
