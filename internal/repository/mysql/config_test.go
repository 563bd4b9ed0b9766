package mysql

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 3307, User: "ledger", Password: "secret", DBName: "bank"}
	want := "ledger:secret@tcp(db:3307)/bank?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Port != 3306 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.ConnectAttempts != 1 {
		t.Errorf("ConnectAttempts = %d", cfg.ConnectAttempts)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v", cfg.ConnMaxLifetime)
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"info", "warn", "silent", "error", ""} {
		if newLogger(level) == nil {
			t.Errorf("newLogger(%q) returned nil", level)
		}
	}
	var _ logger.Interface = newLogger("info")
}

func TestRowConversions(t *testing.T) {
	row := accountRow{ID: "a1", UserID: "u1", Type: "savings", CreatedAtText: "2024-01-01 00:00:00"}
	account := row.toModel()
	if account.CreatedAt != row.CreatedAtText || string(account.Type) != row.Type {
		t.Errorf("toModel = %+v", account)
	}
	if back := accountRowFrom(account); back.CreatedAtText != row.CreatedAtText {
		t.Errorf("accountRowFrom = %+v", back)
	}
}
