package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceName string

	HTTPPort int
	GRPCPort int

	// Storage selects the persistence backend: "postgres" or "memory".
	Storage     string
	DatabaseURL string
	MaxDBConns  int32
	RedisURL    string

	PayPalClientID     string
	PayPalClientSecret string
	PayPalMode         string
	PayPalHTTPTimeout  time.Duration
	SiteURL            string
	BrandName          string

	DefaultCurrency string
	PlatformFeeRate float64

	JWTPublicKeyPEM string

	ReconcileInterval  time.Duration
	ReconcileGrace     time.Duration
	ReconcileBatchSize int
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

type configFile struct {
	Service struct {
		Name     string `yaml:"name"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Storage struct {
		Driver      string `yaml:"driver"`
		DatabaseURL string `yaml:"database_url"`
		MaxConns    int32  `yaml:"max_conns"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"storage"`
	PayPal struct {
		ClientID       string `yaml:"client_id"`
		ClientSecret   string `yaml:"client_secret"`
		Mode           string `yaml:"mode"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		SiteURL        string `yaml:"site_url"`
		BrandName      string `yaml:"brand_name"`
	} `yaml:"paypal"`
	Payments struct {
		DefaultCurrency string  `yaml:"default_currency"`
		PlatformFeeRate float64 `yaml:"platform_fee_rate"`
	} `yaml:"payments"`
	Auth struct {
		JWTPublicKeyPEM string `yaml:"jwt_public_key_pem"`
	} `yaml:"auth"`
	Worker struct {
		ReconcileIntervalSeconds int `yaml:"reconcile_interval_seconds"`
		ReconcileGraceSeconds    int `yaml:"reconcile_grace_seconds"`
		ReconcileBatchSize       int `yaml:"reconcile_batch_size"`
		OutboxPollSeconds        int `yaml:"outbox_poll_seconds"`
		OutboxBatchSize          int `yaml:"outbox_batch_size"`
	} `yaml:"worker"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceName:        "Payments-Service",
		HTTPPort:           8080,
		GRPCPort:           9090,
		Storage:            "postgres",
		MaxDBConns:         10,
		PayPalMode:         "sandbox",
		PayPalHTTPTimeout:  15 * time.Second,
		BrandName:          "RbxAssets",
		DefaultCurrency:    "USD",
		PlatformFeeRate:    0.30,
		ReconcileInterval:  30 * time.Second,
		ReconcileGrace:     time.Minute,
		ReconcileBatchSize: 50,
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.Name != "" {
			cfg.ServiceName = f.Service.Name
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Storage.Driver != "" {
			cfg.Storage = strings.ToLower(f.Storage.Driver)
		}
		cfg.DatabaseURL = f.Storage.DatabaseURL
		if f.Storage.MaxConns > 0 {
			cfg.MaxDBConns = f.Storage.MaxConns
		}
		cfg.RedisURL = f.Storage.RedisURL
		cfg.PayPalClientID = f.PayPal.ClientID
		cfg.PayPalClientSecret = f.PayPal.ClientSecret
		if f.PayPal.Mode != "" {
			cfg.PayPalMode = strings.ToLower(f.PayPal.Mode)
		}
		if f.PayPal.TimeoutSeconds > 0 {
			cfg.PayPalHTTPTimeout = time.Duration(f.PayPal.TimeoutSeconds) * time.Second
		}
		cfg.SiteURL = f.PayPal.SiteURL
		if f.PayPal.BrandName != "" {
			cfg.BrandName = f.PayPal.BrandName
		}
		if f.Payments.DefaultCurrency != "" {
			cfg.DefaultCurrency = strings.ToUpper(f.Payments.DefaultCurrency)
		}
		if f.Payments.PlatformFeeRate > 0 {
			cfg.PlatformFeeRate = f.Payments.PlatformFeeRate
		}
		cfg.JWTPublicKeyPEM = f.Auth.JWTPublicKeyPEM
		if f.Worker.ReconcileIntervalSeconds > 0 {
			cfg.ReconcileInterval = time.Duration(f.Worker.ReconcileIntervalSeconds) * time.Second
		}
		if f.Worker.ReconcileGraceSeconds > 0 {
			cfg.ReconcileGrace = time.Duration(f.Worker.ReconcileGraceSeconds) * time.Second
		}
		if f.Worker.ReconcileBatchSize > 0 {
			cfg.ReconcileBatchSize = f.Worker.ReconcileBatchSize
		}
		if f.Worker.OutboxPollSeconds > 0 {
			cfg.OutboxPollInterval = time.Duration(f.Worker.OutboxPollSeconds) * time.Second
		}
		if f.Worker.OutboxBatchSize > 0 {
			cfg.OutboxBatchSize = f.Worker.OutboxBatchSize
		}
	}

	cfg.ServiceName = envOrDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.Storage = strings.ToLower(envOrDefault("STORAGE_DRIVER", cfg.Storage))
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.PayPalClientID = envOrDefault("PAYPAL_CLIENT_ID", cfg.PayPalClientID)
	cfg.PayPalClientSecret = envOrDefault("PAYPAL_CLIENT_SECRET", cfg.PayPalClientSecret)
	cfg.PayPalMode = strings.ToLower(envOrDefault("PAYPAL_MODE", cfg.PayPalMode))
	cfg.SiteURL = envOrDefault("SITE_URL", cfg.SiteURL)
	cfg.BrandName = envOrDefault("BRAND_NAME", cfg.BrandName)
	cfg.DefaultCurrency = strings.ToUpper(envOrDefault("DEFAULT_CURRENCY", cfg.DefaultCurrency))
	cfg.PlatformFeeRate = envFloat("PLATFORM_FEE_RATE", cfg.PlatformFeeRate)
	cfg.JWTPublicKeyPEM = envOrDefault("JWT_PUBLIC_KEY_PEM", cfg.JWTPublicKeyPEM)
	cfg.ReconcileInterval = time.Duration(envInt("RECONCILE_INTERVAL_SECONDS", int(cfg.ReconcileInterval.Seconds()))) * time.Second
	cfg.ReconcileGrace = time.Duration(envInt("RECONCILE_GRACE_SECONDS", int(cfg.ReconcileGrace.Seconds()))) * time.Second
	cfg.ReconcileBatchSize = envInt("RECONCILE_BATCH_SIZE", cfg.ReconcileBatchSize)
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)

	if cfg.PlatformFeeRate <= 0 || cfg.PlatformFeeRate >= 1 {
		return Config{}, fmt.Errorf("platform fee rate %v out of range (0, 1)", cfg.PlatformFeeRate)
	}
	if cfg.Storage != "postgres" && cfg.Storage != "memory" {
		return Config{}, fmt.Errorf("unknown storage driver %q", cfg.Storage)
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
