package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/clinic")
	t.Cleanup(func() { os.Unsetenv("DATABASE_URL") })
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if cfg.PaymentMode != "mock" {
		t.Errorf("expected default payment mode mock, got %s", cfg.PaymentMode)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	_, err := Load()
	if err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("PORT", "9090")
	os.Setenv("PAYMENT_MODE", "mercadopago")
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("PAYMENT_MODE")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.PaymentMode != "mercadopago" {
		t.Errorf("expected payment mode mercadopago, got %s", cfg.PaymentMode)
	}
}

func TestValidate_RequiresAuthOutsideDev(t *testing.T) {
	cfg := &Config{Env: "production", PaymentMode: "mercadopago", MPAccessToken: "tok"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when no auth is configured in production")
	}

	cfg.AuthIssuer = "https://id.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_PaymentMode(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mock in dev", Config{Env: "development", PaymentMode: "mock"}, false},
		{"mock in production", Config{Env: "production", PaymentMode: "mock", AuthIssuer: "x"}, true},
		{"mercadopago without token", Config{Env: "development", PaymentMode: "mercadopago"}, true},
		{"mercadopago with token", Config{Env: "development", PaymentMode: "mercadopago", MPAccessToken: "tok"}, false},
		{"unknown mode", Config{Env: "development", PaymentMode: "stripe"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
