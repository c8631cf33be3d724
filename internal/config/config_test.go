package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "server:\n  port: \"9090\"\nredis:\n  addr: localhost:6379\n  ttl: 1h\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Game.TotalQuestions != 127 || cfg.Game.Namespace != DefaultNamespace || cfg.Log.Level != "info" {
		t.Fatalf("defaults not applied: %+v", cfg.Game)
	}
	if TTLDuration(cfg.Redis.TTL, 0) != time.Hour {
		t.Fatalf("expected 1h ttl")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if TTLDuration("", time.Minute) != time.Minute {
		t.Fatalf("expected fallback for empty value")
	}
	if TTLDuration("soon", time.Minute) != time.Minute {
		t.Fatalf("expected fallback for bad value")
	}
}
