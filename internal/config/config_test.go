package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"LEDGER_CONFIG", "PORT", "STORAGE_DRIVER", "DATABASE_URL",
	"MYSQL_HOST", "MYSQL_PORT", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_DATABASE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "EVENTS_BACKEND", "KAFKA_BROKERS",
	"JWT_SECRET", "TOKEN_TTL", "BOOTSTRAP_ADMIN_ID", "BOOTSTRAP_ADMIN_PASSWORD",
	"TRUST_DECLARED_ACTOR", "RATES_URL", "CALCULATOR_URL", "RATES_CACHE_TTL", "EXTERNAL_TIMEOUT",
}

// clearEnv blanks every key Load reads. getEnv treats an empty value as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Storage.Driver != StoragePostgres || cfg.Events.Backend != EventsRedis {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.Auth.AdminID != "admin" || cfg.Auth.TrustDeclaredActor {
		t.Errorf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "ledger.yaml")
	yaml := strings.Join([]string{
		"port: \"9000\"",
		"storage:",
		"  driver: mysql",
		"  mysql:",
		"    host: db",
		"    database: bank",
		"redis:",
		"  addr: cache:6379",
		"auth:",
		"  jwtSecret: from-file",
		"  tokenTTL: 2h",
		"external:",
		"  ratesCacheTTL: 5m",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LEDGER_CONFIG", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("TRUST_DECLARED_ACTOR", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9000" || cfg.Storage.Driver != StorageMySQL {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Storage.MySQL.Host != "db" || cfg.Storage.MySQL.Database != "bank" || cfg.Storage.MySQL.Port != 3307 {
		t.Errorf("unexpected mysql config: %+v", cfg.Storage.MySQL)
	}
	if cfg.Storage.MySQL.User != "root" {
		t.Errorf("defaults not kept for keys the file omits: %+v", cfg.Storage.MySQL)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("env should override file, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour || cfg.External.RatesCacheTTL != 5*time.Minute {
		t.Errorf("durations not parsed: %v %v", cfg.Auth.TokenTTL, cfg.External.RatesCacheTTL)
	}
	if !cfg.Auth.TrustDeclaredActor {
		t.Error("TRUST_DECLARED_ACTOR not applied")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"unknown driver", map[string]string{"JWT_SECRET": "x", "STORAGE_DRIVER": "sqlite"}, "storage driver"},
		{"unknown backend", map[string]string{"JWT_SECRET": "x", "EVENTS_BACKEND": "nats"}, "events backend"},
		{"kafka without brokers", map[string]string{"JWT_SECRET": "x", "EVENTS_BACKEND": "kafka"}, "KAFKA_BROKERS"},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "soon"}, "TOKEN_TTL"},
		{"bad int", map[string]string{"JWT_SECRET": "x", "REDIS_DB": "one"}, "REDIS_DB"},
		{"unreadable file", map[string]string{"JWT_SECRET": "x", "LEDGER_CONFIG": "/nonexistent/ledger.yaml"}, "config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestKafkaBrokersList(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("EVENTS_BACKEND", "KAFKA")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Events.KafkaBrokers) != 2 || cfg.Events.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Events.KafkaBrokers)
	}
}
