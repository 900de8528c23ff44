package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "DB_DRIVER", "EXCHANGE_RATE", "JWT_EXPIRES_IN", "CORS_ORIGINS", "DISPLAY_CURRENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite driver by default, got %s", cfg.DBDriver)
	}
	if cfg.ExchangeRate != 59 {
		t.Errorf("expected exchange rate 59, got %v", cfg.ExchangeRate)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %v", cfg.JWTExpirationDur)
	}
	if cfg.DisplayCurrency != "DOP" {
		t.Errorf("expected DOP display currency, got %s", cfg.DisplayCurrency)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS origin, got %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("EXCHANGE_RATE", "60.5")
	t.Setenv("TIPS_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected lower-cased driver, got %s", cfg.DBDriver)
	}
	if cfg.ExchangeRate != 60.5 {
		t.Errorf("expected 60.5, got %v", cfg.ExchangeRate)
	}
	if cfg.TipsTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.TipsTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("EXCHANGE_RATE", "-3")
	t.Setenv("JWT_EXPIRES_IN", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExchangeRate != 59 {
		t.Errorf("expected fallback rate 59, got %v", cfg.ExchangeRate)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected fallback 24h, got %v", cfg.JWTExpirationDur)
	}
}

func TestLoadRequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET in production")
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsProduction() || cfg.JWTSecret != "prod-secret" {
		t.Errorf("expected production config with the given secret, got env=%s", cfg.Env)
	}
}

func TestLoadDevelopmentFallsBackToDevSecret(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected a development secret")
	}
}
