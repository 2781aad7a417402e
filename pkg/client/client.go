package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// EnvBaseURL overrides the API endpoint without code changes.
	EnvBaseURL = "XUEKE_API_URL"

	// defaultBaseURL points at a local server's versioned API root.
	// Endpoint paths are relative to it; the health probe strips the
	// version segment and lives beside it.
	defaultBaseURL = "http://localhost:5000/api/v1"
	defaultTimeout = 30 * time.Second
)

// Client is the typed API surface. All calls go through one request path so
// session handling and error normalization behave identically everywhere.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore

	// onSessionExpired runs after the stored session is cleared because the
	// server rejected it. It is never called for requests that simply lack
	// a session.
	onSessionExpired func()

	getGroup singleflight.Group

	Auth     *AuthService
	Admin    *AdminService
	AI       *AIService
	Content  *ContentService
	Assets   *AssetService
	Notes    *NoteService
	Todos    *TodoService
	AITools  *AIToolService
	Learning *LearningService
	System   *SystemService
}

type Option func(*Client)

func WithBaseURL(raw string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(raw, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithSessionStore(store SessionStore) Option {
	return func(c *Client) { c.store = store }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// OnSessionExpired registers a callback fired when a stored session is
// rejected by the server and has been cleared.
func OnSessionExpired(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// New builds a client. The base URL is resolved in order: WithBaseURL
// option, the XUEKE_API_URL environment variable, then the local default.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      NewMemoryStore(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		if env := os.Getenv(EnvBaseURL); env != "" {
			c.baseURL = strings.TrimRight(env, "/")
		} else {
			c.baseURL = defaultBaseURL
		}
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", c.baseURL, err)
	}

	c.Auth = &AuthService{client: c}
	c.Admin = &AdminService{client: c}
	c.AI = &AIService{client: c}
	c.Content = &ContentService{client: c}
	c.Assets = &AssetService{client: c}
	c.Notes = &NoteService{client: c}
	c.Todos = &TodoService{client: c}
	c.AITools = &AIToolService{client: c}
	c.Learning = &LearningService{client: c}
	c.System = &SystemService{client: c}

	return c, nil
}

// Store exposes the session store, mainly so callers can inspect the
// current session.
func (c *Client) Store() SessionStore {
	return c.store
}

// envelope mirrors the wire format every endpoint speaks.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// get de-duplicates concurrent identical GETs: callers racing on the same
// path and query share a single round trip.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	for {
		raw, err, _ := c.getGroup.Do(key, func() (any, error) {
			var data json.RawMessage
			if err := c.do(ctx, http.MethodGet, path, query, nil, "", &data); err != nil {
				return nil, err
			}
			return data, nil
		})
		if err != nil {
			// A shared flight dies with its initiating caller's context.
			// Rerun while our own context is still live so one caller's
			// cancellation does not fail everyone who joined.
			if ctx.Err() == nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				c.getGroup.Forget(key)
				continue
			}
			return err
		}
		if out == nil {
			return nil
		}
		data := raw.(json.RawMessage)
		if len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Kind: KindServer, Message: fmt.Sprintf("decode response: %v", err), cause: err}
		}
		return nil
	}
}

// getUnversioned issues a GET against a path mounted beside the versioned
// base rather than under it. Only the health probe lives there.
func (c *Client) getUnversioned(ctx context.Context, path string, out any) error {
	var data json.RawMessage
	if err := c.doURL(ctx, http.MethodGet, strings.TrimSuffix(c.baseURL, "/v1")+path, nil, nil, "", &data); err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Message: fmt.Sprintf("decode response: %v", err), cause: err}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("encode request: %v", err), cause: err}
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	var data json.RawMessage
	if err := c.do(ctx, method, path, nil, body, contentType, &data); err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Message: fmt.Sprintf("decode response: %v", err), cause: err}
	}
	return nil
}

// do is the single request path. It injects the freshest stored token,
// normalizes every failure into *Error, and clears the session on a 401.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, data *json.RawMessage) error {
	return c.doURL(ctx, method, c.baseURL+path, query, body, contentType, data)
}

func (c *Client) doURL(ctx context.Context, method, u string, query url.Values, body io.Reader, contentType string, data *json.RawMessage) error {
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &Error{Kind: KindValidation, Message: err.Error(), cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	hadSession := false
	if c.store != nil {
		if session, err := c.store.Load(); err == nil && session.Token != "" {
			req.Header.Set("Authorization", "Bearer "+session.Token)
			hadSession = true
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Kind: KindNetwork, Message: ctxErr.Error(), cause: ctxErr}
		}
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return networkError(err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return &Error{
				Kind:       kindForStatus(resp.StatusCode),
				StatusCode: resp.StatusCode,
				Message:    http.StatusText(resp.StatusCode),
				cause:      err,
			}
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession(hadSession)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			if resp.StatusCode >= 400 {
				msg = http.StatusText(resp.StatusCode)
			} else {
				// success=false on a 2xx must not read as "OK".
				msg = "request failed"
			}
		}
		return &Error{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	if data != nil {
		*data = env.Data
	}
	return nil
}

// expireSession clears the stored session and notifies the callback, but
// only when a session was actually presented; anonymous 401s stay silent.
func (c *Client) expireSession(hadSession bool) {
	if !hadSession || c.store == nil {
		return
	}
	if err := c.store.Clear(); err != nil && !errors.Is(err, ErrNoSession) {
		return
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
