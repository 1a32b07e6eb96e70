package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dgallion1/contactcsv/internal/vcf"
)

type Config struct {
	Port string

	// Auth. Empty disables the bearer check.
	APIKey string

	// Conversion
	DefaultMode vcf.Mode
	Collation   string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64
	MaxBatchFiles  int

	// Job state
	JobTTL          time.Duration
	CleanupInterval time.Duration
	StatsWindow     time.Duration

	// PDF
	PDFFallbackPdftotext bool

	LogLevel slog.Level
}

// fileConfig mirrors Config in the TOML file. Durations and the log level
// are strings so they read naturally, e.g. job_ttl = "30m".
type fileConfig struct {
	Port                 *string `toml:"port"`
	APIKey               *string `toml:"api_key"`
	DefaultMode          *string `toml:"default_mode"`
	Collation            *string `toml:"collation"`
	WorkerCount          *int    `toml:"worker_count"`
	MaxQueueSize         *int    `toml:"max_queue_size"`
	MaxUploadBytes       *int64  `toml:"max_upload_bytes"`
	MaxBatchFiles        *int    `toml:"max_batch_files"`
	JobTTL               *string `toml:"job_ttl"`
	CleanupInterval      *string `toml:"cleanup_interval"`
	StatsWindow          *string `toml:"stats_window"`
	PDFFallbackPdftotext *bool   `toml:"pdf_fallback_pdftotext"`
	LogLevel             *string `toml:"log_level"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Port:                 "8090",
		DefaultMode:          vcf.ModeDynamic,
		Collation:            "en",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       10 << 20, // 10MB
		MaxBatchFiles:        20,
		JobTTL:               1 * time.Hour,
		CleanupInterval:      5 * time.Minute,
		StatsWindow:          1 * time.Hour,
		PDFFallbackPdftotext: true,
		LogLevel:             slog.LevelInfo,
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins). An empty
// path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("CONTACTCSV_API_KEY", cfg.APIKey)
	if v := os.Getenv("CONTACTCSV_MODE"); v != "" {
		cfg.DefaultMode = vcf.Mode(strings.ToLower(v))
	}
	if v, ok := os.LookupEnv("CONTACTCSV_COLLATION"); ok {
		cfg.Collation = v
	}
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.MaxBatchFiles = envInt("MAX_BATCH_FILES", cfg.MaxBatchFiles)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.CleanupInterval = envDuration("CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	cfg.applyFallbacks()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	setIf(&c.Port, fc.Port)
	setIf(&c.APIKey, fc.APIKey)
	if fc.DefaultMode != nil {
		c.DefaultMode = vcf.Mode(strings.ToLower(*fc.DefaultMode))
	}
	setIf(&c.Collation, fc.Collation)
	setIf(&c.WorkerCount, fc.WorkerCount)
	setIf(&c.MaxQueueSize, fc.MaxQueueSize)
	setIf(&c.MaxUploadBytes, fc.MaxUploadBytes)
	setIf(&c.MaxBatchFiles, fc.MaxBatchFiles)
	setIf(&c.PDFFallbackPdftotext, fc.PDFFallbackPdftotext)

	durations := []struct {
		key string
		src *string
		dst *time.Duration
	}{
		{"job_ttl", fc.JobTTL, &c.JobTTL},
		{"cleanup_interval", fc.CleanupInterval, &c.CleanupInterval},
		{"stats_window", fc.StatsWindow, &c.StatsWindow},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("config %s: %w", d.key, err)
		}
		*d.dst = v
	}

	if fc.LogLevel != nil {
		if err := c.LogLevel.UnmarshalText([]byte(*fc.LogLevel)); err != nil {
			return fmt.Errorf("config log_level: %w", err)
		}
	}
	return nil
}

func (c *Config) applyFallbacks() {
	def := Default()
	if c.WorkerCount <= 0 {
		c.WorkerCount = def.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = def.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = def.MaxUploadBytes
	}
	if c.MaxBatchFiles <= 0 {
		c.MaxBatchFiles = def.MaxBatchFiles
	}
	if c.JobTTL <= 0 {
		c.JobTTL = def.JobTTL
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = def.CleanupInterval
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = def.StatsWindow
	}
}

// Validate checks that the conversion settings build a converter.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := vcf.New(vcf.Options{Mode: c.DefaultMode, Collation: c.Collation}); err != nil {
		return fmt.Errorf("conversion settings: %w", err)
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
