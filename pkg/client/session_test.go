package client

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty store err = %v, want ErrNoSession", err)
	}

	want := Session{Token: "tok", Username: "zhang", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != "tok" || got.Username != "zhang" {
		t.Errorf("got = %+v", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("store should be empty after Clear")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("missing file err = %v, want ErrNoSession", err)
	}

	want := Session{Token: "tok-file", Role: "admin", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != want.Token || got.Role != want.Role {
		t.Errorf("got = %+v", got)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("perm = %o, want 600", info.Mode().Perm())
		}
	}
}

func TestFileStoreClearIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	_ = store.Save(Session{Token: "tok"})
	if err := store.Clear(); err != nil {
		t.Fatalf("first Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear must be a no-op, got: %v", err)
	}
}

func TestSessionValid(t *testing.T) {
	if (Session{}).Valid() {
		t.Error("zero session should be invalid")
	}
	if (Session{Token: "t", ExpiresAt: time.Now().Add(-time.Minute)}).Valid() {
		t.Error("expired session should be invalid")
	}
	if !(Session{Token: "t", ExpiresAt: time.Now().Add(time.Minute)}).Valid() {
		t.Error("live session should be valid")
	}
}
