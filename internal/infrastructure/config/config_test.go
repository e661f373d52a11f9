package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLookup_Defaults(t *testing.T) {
	cfg, err := Lookup(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Auth.AccessTokenTTL != 5*time.Minute {
		t.Errorf("expected access ttl 5m, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != 24*time.Hour {
		t.Errorf("expected refresh ttl 24h, got %v", cfg.Auth.RefreshTokenTTL)
	}
	if cfg.Storage.UploadURLTTL != time.Hour {
		t.Errorf("expected upload ttl 1h, got %v", cfg.Storage.UploadURLTTL)
	}
	if cfg.Billing.DefaultCurrency != "ZAR" {
		t.Errorf("expected ZAR, got %q", cfg.Billing.DefaultCurrency)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
}

func TestLookup_Overrides(t *testing.T) {
	cfg, err := Lookup(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"ENV":             "production",
		"REDIS_DB":        "3",
		"NOTIFY_WORKERS":  "16",
		"STORAGE_USE_SSL": "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Error("production must not be development")
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	if cfg.Notify.Workers != 16 {
		t.Errorf("expected 16 workers, got %d", cfg.Notify.Workers)
	}
	if !cfg.Storage.UseSSL {
		t.Error("expected ssl enabled")
	}
}

func TestLookup_RequiresSecret(t *testing.T) {
	if _, err := Lookup(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}
