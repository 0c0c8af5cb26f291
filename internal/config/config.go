// Package config provides configuration loading from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alperekinci99/typefetch-cli/internal/naming"
)

// Sample limit defaults
const (
	MaxSamplesValue     = 1000
	MaxSampleBytesValue = 10 << 20
	ExtractWorkersValue = 8
	CacheMaxItemsValue  = 256
)

// Config holds all configuration for the CLI and the MCP server.
type Config struct {
	BaseName       string // TYPEFETCH_BASE_NAME, default "" (derived from the input name)
	NameFormat     string // TYPEFETCH_NAME_FORMAT, default "{{name}}Response"
	FileNameFormat string // TYPEFETCH_FILE_NAME_FORMAT, default "{{name}}"
	OutDir         string // TYPEFETCH_OUT_DIR, default "" (stdout)
	SnapshotDir    string // TYPEFETCH_SNAPSHOT_DIR, default "" (no snapshots)

	MaxSamples          int // MAX_SAMPLES, default 1000
	MaxSampleBytes      int // MAX_SAMPLE_BYTES, default 10 MiB
	ExtractWorkers      int // EXTRACT_WORKERS, default 8
	ResultCacheMaxItems int // RESULT_CACHE_MAX_ITEMS, default 256

	// Live sample fetching
	FetchTimeout time.Duration // FETCH_TIMEOUT_MS, default 15000ms (15s)
	AllowFetch   bool          // ALLOW_FETCH, default true; gates the MCP fetch tool

	// PII masking applied before inference and snapshots
	MaskEmail bool // MASK_EMAIL, default false
	MaskPhone bool // MASK_PHONE, default false

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		BaseName:       getEnvString("TYPEFETCH_BASE_NAME", ""),
		NameFormat:     getEnvString("TYPEFETCH_NAME_FORMAT", naming.DefaultNameFormat),
		FileNameFormat: getEnvString("TYPEFETCH_FILE_NAME_FORMAT", naming.DefaultFileNameFormat),
		OutDir:         getEnvString("TYPEFETCH_OUT_DIR", ""),
		SnapshotDir:    getEnvString("TYPEFETCH_SNAPSHOT_DIR", ""),

		MaxSamples:          getEnvInt("MAX_SAMPLES", MaxSamplesValue),
		MaxSampleBytes:      getEnvInt("MAX_SAMPLE_BYTES", MaxSampleBytesValue),
		ExtractWorkers:      getEnvInt("EXTRACT_WORKERS", ExtractWorkersValue),
		ResultCacheMaxItems: getEnvInt("RESULT_CACHE_MAX_ITEMS", CacheMaxItemsValue),

		FetchTimeout: getEnvDurationMs("FETCH_TIMEOUT_MS", 15000),
		AllowFetch:   getEnvBool("ALLOW_FETCH", true),

		MaskEmail: getEnvBool("MASK_EMAIL", false),
		MaskPhone: getEnvBool("MASK_PHONE", false),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if !naming.ValidPattern(c.NameFormat) {
		return fmt.Errorf("name format %q must contain %s", c.NameFormat, naming.Placeholder)
	}
	if !naming.ValidPattern(c.FileNameFormat) {
		return fmt.Errorf("file name format %q must contain %s", c.FileNameFormat, naming.Placeholder)
	}
	if c.MaxSamples < 1 {
		return fmt.Errorf("MAX_SAMPLES must be positive, got %d", c.MaxSamples)
	}
	if c.MaxSampleBytes < 1 {
		return fmt.Errorf("MAX_SAMPLE_BYTES must be positive, got %d", c.MaxSampleBytes)
	}
	if c.ExtractWorkers < 1 {
		return fmt.Errorf("EXTRACT_WORKERS must be positive, got %d", c.ExtractWorkers)
	}
	if c.ResultCacheMaxItems < 1 {
		return fmt.Errorf("RESULT_CACHE_MAX_ITEMS must be positive, got %d", c.ResultCacheMaxItems)
	}
	return nil
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
