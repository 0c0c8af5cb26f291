package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TYPEFETCH_BASE_NAME", "TYPEFETCH_NAME_FORMAT", "TYPEFETCH_FILE_NAME_FORMAT",
		"TYPEFETCH_OUT_DIR", "TYPEFETCH_SNAPSHOT_DIR", "MAX_SAMPLES", "MAX_SAMPLE_BYTES",
		"EXTRACT_WORKERS", "RESULT_CACHE_MAX_ITEMS", "MASK_EMAIL", "MASK_PHONE",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LOG_COMPRESS", "FETCH_TIMEOUT_MS", "ALLOW_FETCH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "", cfg.BaseName)
	assert.Equal(t, "{{name}}Response", cfg.NameFormat)
	assert.Equal(t, "{{name}}", cfg.FileNameFormat)
	assert.Equal(t, MaxSamplesValue, cfg.MaxSamples)
	assert.Equal(t, 10<<20, cfg.MaxSampleBytes)
	assert.Equal(t, ExtractWorkersValue, cfg.ExtractWorkers)
	assert.Equal(t, CacheMaxItemsValue, cfg.ResultCacheMaxItems)
	assert.False(t, cfg.MaskEmail)
	assert.False(t, cfg.MaskPhone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.LogCompress)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.AllowFetch)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TYPEFETCH_BASE_NAME", "users")
	t.Setenv("TYPEFETCH_NAME_FORMAT", "I{{name}}")
	t.Setenv("MAX_SAMPLES", "50")
	t.Setenv("EXTRACT_WORKERS", "2")
	t.Setenv("MASK_EMAIL", "yes")
	t.Setenv("MASK_PHONE", "1")
	t.Setenv("LOG_COMPRESS", "off")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("FETCH_TIMEOUT_MS", "2500")
	t.Setenv("ALLOW_FETCH", "false")

	cfg := Load()

	assert.Equal(t, "users", cfg.BaseName)
	assert.Equal(t, "I{{name}}", cfg.NameFormat)
	assert.Equal(t, 50, cfg.MaxSamples)
	assert.Equal(t, 2, cfg.ExtractWorkers)
	assert.True(t, cfg.MaskEmail)
	assert.True(t, cfg.MaskPhone)
	assert.False(t, cfg.LogCompress)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2500*time.Millisecond, cfg.FetchTimeout)
	assert.False(t, cfg.AllowFetch)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_SAMPLES", "many")
	t.Setenv("MASK_EMAIL", "maybe")

	cfg := Load()

	assert.Equal(t, MaxSamplesValue, cfg.MaxSamples)
	assert.False(t, cfg.MaskEmail)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"name format without placeholder", func(c *Config) { c.NameFormat = "Response" }, "name format"},
		{"file format without placeholder", func(c *Config) { c.FileNameFormat = "out" }, "file name format"},
		{"zero samples", func(c *Config) { c.MaxSamples = 0 }, "MAX_SAMPLES"},
		{"zero bytes", func(c *Config) { c.MaxSampleBytes = 0 }, "MAX_SAMPLE_BYTES"},
		{"zero workers", func(c *Config) { c.ExtractWorkers = 0 }, "EXTRACT_WORKERS"},
		{"zero cache", func(c *Config) { c.ResultCacheMaxItems = 0 }, "RESULT_CACHE_MAX_ITEMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
