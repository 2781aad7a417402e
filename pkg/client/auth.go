package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Settings struct {
	Theme        string `json:"theme"`
	Language     string `json:"language"`
	DefaultModel string `json:"default_model"`
}

type AuthService struct {
	client *Client
}

type loginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates and saves the resulting session in the store, so
// subsequent calls are authenticated automatically.
func (s *AuthService) Login(ctx context.Context, username, password string) (User, error) {
	var result loginResult
	err := s.client.post(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return User{}, err
	}

	session := Session{
		Token:     result.Token,
		Username:  result.User.Username,
		Role:      result.User.Role,
		ExpiresAt: tokenExpiry(result.Token),
	}
	if err := s.client.store.Save(session); err != nil {
		return User{}, &Error{Kind: KindServer, Message: "save session: " + err.Error(), cause: err}
	}

	return result.User, nil
}

// Logout revokes the server-side session and clears the local one. The
// local session is cleared even when the server call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.client.post(ctx, "/auth/logout", nil, nil)
	if clearErr := s.client.store.Clear(); clearErr != nil && err == nil {
		err = &Error{Kind: KindServer, Message: "clear session: " + clearErr.Error(), cause: clearErr}
	}
	if IsAuthError(err) {
		// Session already dead server-side; logout still succeeded locally.
		return nil
	}
	return err
}

func (s *AuthService) Me(ctx context.Context) (User, error) {
	var user User
	err := s.client.get(ctx, "/auth/me", nil, &user)
	return user, err
}

func (s *AuthService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return s.client.put(ctx, "/auth/change-password", map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}, nil)
}

func (s *AuthService) GetSettings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := s.client.get(ctx, "/auth/settings", nil, &settings)
	return settings, err
}

func (s *AuthService) UpdateSettings(ctx context.Context, settings Settings) (Settings, error) {
	var updated Settings
	err := s.client.put(ctx, "/auth/settings", settings, &updated)
	return updated, err
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// client only needs it to know when the session is stale. Falls back to 24h
// when the token cannot be parsed.
func tokenExpiry(token string) time.Time {
	fallback := time.Now().Add(24 * time.Hour)

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fallback
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return fallback
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return fallback
	}
	return time.Unix(claims.Exp, 0)
}
