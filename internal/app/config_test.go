package app_test

import (
	"testing"
	"time"

	"github.com/schedulo/schedulo/internal/app"
	_ "github.com/schedulo/schedulo/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cr3t")

	cfg, err := app.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppAddr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.AppAddr)
	}
	if cfg.TokenTTL() != time.Hour {
		t.Fatalf("expected default token ttl of 1h, got %s", cfg.TokenTTL())
	}
	if cfg.LoginAttemptLimit != 5 {
		t.Fatalf("unexpected default login attempt limit %d", cfg.LoginAttemptLimit)
	}
}

func TestLoadConfigRequiresTokenSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	if _, err := app.LoadConfig(); err == nil {
		t.Fatal("expected startup failure without a token secret")
	}
}

func TestLoadConfigRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cr3t")
	t.Setenv("TOKEN_TTL_MS", "0")

	if _, err := app.LoadConfig(); err == nil {
		t.Fatal("expected startup failure with zero token ttl")
	}
}

func TestTokenTTLConversion(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cr3t")
	t.Setenv("TOKEN_TTL_MS", "90000")

	cfg, err := app.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TokenTTL() != 90*time.Second {
		t.Fatalf("expected 90s, got %s", cfg.TokenTTL())
	}
}
