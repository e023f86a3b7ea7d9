package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("port: \"8081\"\nqueue:\n  workers: 2\n  enqueue_timeout: 5s\nreminder:\n  round_interval: 1m\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MYSQL_DSN", "u:p@tcp(localhost:3306)/db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("QUEUE_BACKEND", "redis")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Queue.Workers != 2 || cfg.Queue.EnqueueTimeout != 5*time.Second {
		t.Errorf("queue = %+v", cfg.Queue)
	}
	if cfg.Reminder.RoundInterval != time.Minute {
		t.Errorf("round interval = %v", cfg.Reminder.RoundInterval)
	}
	if cfg.Reminder.DailySchedule != "30 11 * * *" {
		t.Errorf("daily schedule = %q", cfg.Reminder.DailySchedule)
	}
	if cfg.MySQL.DSN != "u:p@tcp(localhost:3306)/db" || cfg.JWTSecret != "s3cret" || cfg.Queue.Backend != "redis" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("QUEUE_BACKEND", "")
	t.Setenv("QUEUE_SIZE", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Queue.Backend != "memory" || cfg.Queue.Size != 500 {
		t.Errorf("defaults not applied: %+v", cfg.Queue)
	}
	if err := cfg.ValidateServer(); err == nil {
		t.Error("expected missing jwt_secret and dsn to fail validation")
	}
}
