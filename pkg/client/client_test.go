package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestBaseURLResolution(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		c, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if c.baseURL != defaultBaseURL {
			t.Errorf("baseURL = %q, want %q", c.baseURL, defaultBaseURL)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "https://api.example.com/api/v1/")
		c, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if c.baseURL != "https://api.example.com/api/v1" {
			t.Errorf("baseURL = %q", c.baseURL)
		}
	})

	t.Run("option beats env", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "https://env.example.com")
		c, err := New(WithBaseURL("https://opt.example.com"))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if c.baseURL != "https://opt.example.com" {
			t.Errorf("baseURL = %q", c.baseURL)
		}
	})
}

func TestTokenInjection(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, true, "", map[string]string{"id": "u1"})
	}))

	if err := c.store.Save(Session{Token: "tok-123", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := c.Auth.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestTokenInjection_FreshTokenPerRequest(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, "", nil)
	}))

	_ = c.store.Save(Session{Token: "first", ExpiresAt: time.Now().Add(time.Hour)})
	_ = c.post(context.Background(), "/notes", nil, nil)

	_ = c.store.Save(Session{Token: "second", ExpiresAt: time.Now().Add(time.Hour)})
	_ = c.post(context.Background(), "/notes", nil, nil)

	if len(seen) != 2 || seen[0] != "Bearer first" || seen[1] != "Bearer second" {
		t.Errorf("tokens sent = %v, store must be re-read per request", seen)
	}
}

func TestLoginSavesSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"token": "issued-token",
			"user":  map[string]string{"id": "u1", "username": "zhang", "role": "admin"},
		})
	}))

	user, err := c.Auth.Login(context.Background(), "zhang", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "zhang" {
		t.Errorf("username = %q", user.Username)
	}

	session, err := c.store.Load()
	if err != nil {
		t.Fatalf("Load after login: %v", err)
	}
	if session.Token != "issued-token" || session.Role != "admin" {
		t.Errorf("session = %+v", session)
	}
}

func TestSessionExpiry_ClearsStoreAndNotifiesOnce(t *testing.T) {
	var fired int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "invalid token", nil)
	}), OnSessionExpired(func() {
		atomic.AddInt32(&fired, 1)
	}))

	_ = c.store.Save(Session{Token: "stale", ExpiresAt: time.Now().Add(time.Hour)})

	_, err := c.Auth.Me(context.Background())
	if !IsAuthError(err) {
		t.Fatalf("err = %v, want auth error", err)
	}

	if _, err := c.store.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("session should have been cleared")
	}
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("callback fired %d times, want 1", n)
	}

	// A second 401 without a stored session is an anonymous failure and must
	// not fire the callback again.
	_, _ = c.Auth.Me(context.Background())
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("callback fired %d times after anonymous 401, want still 1", n)
	}
}

func TestErrorNormalization(t *testing.T) {
	cases := []struct {
		status  int
		message string
		kind    ErrorKind
	}{
		{http.StatusUnauthorized, "用户名或密码错误", KindAuth},
		{http.StatusForbidden, "forbidden", KindAuth},
		{http.StatusNotFound, "对话不存在", KindNotFound},
		{http.StatusConflict, "用户名已存在", KindConflict},
		{http.StatusBadRequest, "bad input", KindValidation},
		{http.StatusTooManyRequests, "too many requests", KindRateLimit},
		{http.StatusInternalServerError, "boom", KindServer},
		{http.StatusBadGateway, "provider down", KindServer},
	}

	for _, tc := range cases {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, tc.status, false, tc.message, nil)
		}))

		err := c.post(context.Background(), "/x", nil, nil)
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: err = %T, want *Error", tc.status, err)
		}
		if apiErr.Kind != tc.kind {
			t.Errorf("status %d: kind = %q, want %q", tc.status, apiErr.Kind, tc.kind)
		}
		if apiErr.StatusCode != tc.status {
			t.Errorf("status %d: StatusCode = %d", tc.status, apiErr.StatusCode)
		}
		if apiErr.Message != tc.message {
			t.Errorf("status %d: message = %q, want server message passed through", tc.status, apiErr.Message)
		}
	}
}

func TestEnvelopeSuccessFalseWithOKStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, "逻辑失败", nil)
	}))

	err := c.post(context.Background(), "/x", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if apiErr.Message != "逻辑失败" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestNetworkErrorKind(t *testing.T) {
	c, err := New(WithBaseURL("http://127.0.0.1:1"), WithTimeout(200*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	callErr := c.post(context.Background(), "/x", nil, nil)
	var apiErr *Error
	if !errors.As(callErr, &apiErr) {
		t.Fatalf("err = %T, want *Error", callErr)
	}
	if apiErr.Kind != KindNetwork {
		t.Errorf("kind = %q, want network", apiErr.Kind)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for network failure", apiErr.StatusCode)
	}
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	err := c.get(ctx, "/slow", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if apiErr.Kind != KindNetwork {
		t.Errorf("kind = %q", apiErr.Kind)
	}
}

func TestConcurrentGETsShareOneRequest(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		writeEnvelope(w, http.StatusOK, true, "", []map[string]string{{"id": "m1"}})
	}))

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			var out []map[string]string
			if err := c.get(context.Background(), "/ai/models", nil, &out); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}

	// Give the goroutines time to pile onto the in-flight call.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d requests, want 1 (deduplicated)", got)
	}
}

func TestLogoutClearsSessionEvenIfServerRejects(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, false, "session not found", nil)
	}))

	_ = c.store.Save(Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})

	if err := c.Auth.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := c.store.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("session should be cleared after logout")
	}
}

// The server mounts the versioned API under /api/v1 and the health probe
// beside it at /api/healthz. A client whose base is the versioned root must
// join paths so both land where the server serves them.
func TestVersionedServerLayout(t *testing.T) {
	if !strings.HasSuffix(defaultBaseURL, "/api/v1") {
		t.Fatalf("defaultBaseURL = %q, want a versioned root", defaultBaseURL)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"token": "issued-token",
			"user":  map[string]string{"id": "u1", "username": "zhang", "role": "user"},
		})
	})
	mux.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{"status": "ok"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(WithBaseURL(srv.URL + "/api/v1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Auth.Login(context.Background(), "zhang", "secret123"); err != nil {
		t.Fatalf("Login against versioned base: %v", err)
	}
	health, err := c.System.Health(context.Background())
	if err != nil {
		t.Fatalf("Health against versioned base: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("health status = %q", health.Status)
	}
}

func TestCanceledPeerDoesNotPoisonSharedGET(t *testing.T) {
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		writeEnvelope(w, http.StatusOK, true, "", []map[string]string{{"id": "m1"}})
	}))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.get(firstCtx, "/ai/models", nil, nil)
	}()
	<-entered

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- c.get(context.Background(), "/ai/models", nil, nil)
	}()
	// Give the second caller time to join the in-flight request.
	time.Sleep(100 * time.Millisecond)

	cancelFirst()
	if err := <-firstDone; err == nil {
		t.Error("canceled caller should see an error")
	}

	<-entered // the surviving caller's rerun reaches the server
	close(release)
	if err := <-secondDone; err != nil {
		t.Errorf("caller with a live context got %v, want success", err)
	}
}

func TestEnvelopeFailureWithoutMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, "", nil)
	}))

	err := c.post(context.Background(), "/x", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if apiErr.Message == "OK" || apiErr.Message == "" {
		t.Errorf("message = %q, must not echo the 200 status text", apiErr.Message)
	}
}
