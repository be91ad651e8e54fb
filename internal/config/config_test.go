package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.TokenTTL != 168*time.Hour {
		t.Fatalf("expected 7 day token TTL, got %v", cfg.TokenTTL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("expected 15s request timeout, got %v", cfg.RequestTimeout)
	}
	if string(cfg.JWTSecret) != "test-secret" {
		t.Fatal("secret must come from the environment")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing JWT_SECRET to fail")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cases := []struct{ key, bad, good string }{
		{"PORT", "not-a-port", "8080"},
		{"TOKEN_TTL", "soon", "168h"},
		{"REQUEST_TIMEOUT", "whenever", "15s"},
		{"BCRYPT_COST", "high", "10"},
		{"BACKUP_RETENTION", "some", "7"},
	}
	for _, tc := range cases {
		t.Setenv(tc.key, tc.bad)
		if _, err := Load(); err == nil {
			t.Fatalf("expected invalid %s to fail", tc.key)
		}
		t.Setenv(tc.key, tc.good)
	}
}
