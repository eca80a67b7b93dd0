package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config without file: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.GRPCPort != 9090 {
		t.Fatalf("ports = %d/%d", cfg.HTTPPort, cfg.GRPCPort)
	}
	if cfg.Storage != "postgres" {
		t.Fatalf("storage = %s", cfg.Storage)
	}
	if cfg.PlatformFeeRate != 0.30 || cfg.DefaultCurrency != "USD" {
		t.Fatalf("payments defaults = %v %s", cfg.PlatformFeeRate, cfg.DefaultCurrency)
	}
	if cfg.ReconcileGrace != time.Minute {
		t.Fatalf("reconcile grace = %s", cfg.ReconcileGrace)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
service:
  name: Payments-Dev
  http_port: 8181
storage:
  driver: memory
payments:
  platform_fee_rate: 0.25
paypal:
  mode: production
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "8282")
	t.Setenv("PAYPAL_CLIENT_ID", "client-id")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "Payments-Dev" {
		t.Fatalf("service name = %s", cfg.ServiceName)
	}
	// Environment wins over the file.
	if cfg.HTTPPort != 8282 {
		t.Fatalf("http port = %d", cfg.HTTPPort)
	}
	if cfg.Storage != "memory" || cfg.PlatformFeeRate != 0.25 || cfg.PayPalMode != "production" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PayPalClientID != "client-id" {
		t.Fatalf("paypal client id = %s", cfg.PayPalClientID)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("PLATFORM_FEE_RATE", "1.5")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("fee rate above 1 accepted")
	}
	t.Setenv("PLATFORM_FEE_RATE", "0.3")
	t.Setenv("STORAGE_DRIVER", "dynamo")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("unknown storage driver accepted")
	}
}
