package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VIGIL_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("AccessTokenTTL = %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("RefreshTokenTTL = %v", cfg.RefreshTokenTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VIGIL_JWT_SECRET", "test-secret")
	t.Setenv("VIGIL_LISTEN_ADDR", ":9090")
	t.Setenv("VIGIL_STORE_BACKEND", BackendPostgres)
	t.Setenv("VIGIL_PG_DSN", "postgres://vigil@localhost/vigil")
	t.Setenv("VIGIL_ACCESS_TOKEN_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.StoreBackend != BackendPostgres || cfg.PostgresDSN == "" {
		t.Fatalf("postgres backend not applied: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 5*time.Minute {
		t.Fatalf("AccessTokenTTL = %v", cfg.AccessTokenTTL)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("VIGIL_JWT_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "VIGIL_JWT_SECRET") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestLoadRequiresPostgresDSN(t *testing.T) {
	t.Setenv("VIGIL_JWT_SECRET", "test-secret")
	t.Setenv("VIGIL_STORE_BACKEND", BackendPostgres)
	t.Setenv("VIGIL_PG_DSN", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "VIGIL_PG_DSN") {
		t.Fatalf("expected missing DSN error, got %v", err)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("VIGIL_JWT_SECRET", "test-secret")
	t.Setenv("VIGIL_STORE_BACKEND", "etcd")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "unsupported store backend") {
		t.Fatalf("expected unsupported backend error, got %v", err)
	}
}
