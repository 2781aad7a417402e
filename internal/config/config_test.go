package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 5000 {
		t.Errorf("HTTP.Port = %d, want 5000", cfg.HTTP.Port)
	}
	if cfg.Security.JWTTTL != 24*time.Hour {
		t.Errorf("JWTTTL = %v, want 24h", cfg.Security.JWTTTL)
	}
	if cfg.Redis.Stream != "xueke:jobs" {
		t.Errorf("Redis.Stream = %q", cfg.Redis.Stream)
	}
	if cfg.Redis.Group != "xueke-workers" {
		t.Errorf("Redis.Group = %q", cfg.Redis.Group)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Max != 300 || cfg.RateLimit.Window != 15*time.Minute {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.Queue.ClaimInterval != 10*time.Second {
		t.Errorf("Queue.ClaimInterval = %v", cfg.Queue.ClaimInterval)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XUEKE_ENVIRONMENT", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
}
