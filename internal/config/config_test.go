package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/contactcsv/internal/vcf"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultMode != vcf.ModeDynamic {
		t.Errorf("expected default mode %q, got %q", vcf.ModeDynamic, cfg.DefaultMode)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactcsv.toml")
	body := `
port = "9000"
default_mode = "FIXED"
worker_count = 2
job_ttl = "30m"
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("expected env to win for port, got %q", cfg.Port)
	}
	if cfg.DefaultMode != vcf.ModeFixed {
		t.Errorf("expected mode %q from file, got %q", vcf.ModeFixed, cfg.DefaultMode)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected job ttl 30m, got %s", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("expected untouched default queue size, got %d", cfg.MaxQueueSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte(`job_ttl = "soon"`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoad_NonPositiveFallbacks(t *testing.T) {
	t.Setenv("WORKER_COUNT", "0")
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected worker fallback 4, got %d", cfg.WorkerCount)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("expected upload fallback, got %d", cfg.MaxUploadBytes)
	}
}

func TestValidate_RejectsUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.DefaultMode = "wide"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestValidate_RejectsBadCollation(t *testing.T) {
	cfg := Default()
	cfg.Collation = "??"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad collation tag")
	}
}
