package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.JWT.AccessTTL != 24*time.Hour {
		t.Fatalf("expected 24h access TTL, got %v", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 168*time.Hour {
		t.Fatalf("expected 168h refresh TTL, got %v", cfg.JWT.RefreshTTL)
	}
	if cfg.Mongo.Database != "community" {
		t.Fatalf("unexpected mongo database: %s", cfg.Mongo.Database)
	}
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	if _, err := Load(context.Background()); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}

	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "")

	if _, err := Load(context.Background()); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("expected 15m access TTL, got %v", cfg.JWT.AccessTTL)
	}
	if cfg.Redis.Addr != "redis:6380" {
		t.Fatalf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
}
