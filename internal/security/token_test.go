package security

import (
	"bytes"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateAccessToken(secret, "user-1", "session-1", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(token, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want session-1", claims.SessionID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret-a", "user-1", "session-1", "standard_user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, "secret-b"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "session-1", "standard_user", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(token, "secret"); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	a := HashToken("token-value")
	b := HashToken("token-value")
	c := HashToken("other-value")

	if !bytes.Equal(a, b) {
		t.Error("same input should produce same hash")
	}
	if bytes.Equal(a, c) {
		t.Error("different inputs should produce different hashes")
	}
	if len(a) != 32 {
		t.Errorf("hash length = %d, want 32", len(a))
	}
}
