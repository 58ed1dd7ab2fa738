package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg := Load()

	assert.Equal(t, "dev", cfg.Environment)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultModel, cfg.OpenAIModel)
	assert.Zero(t, cfg.UpstreamTimeout)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("UPSTREAM_TIMEOUT", "90s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("CLERK_AUTHORIZED_PARTIES", " https://app.example.com , ,https://admin.example.com")

	cfg := Load()

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "prod_", cfg.TablePrefix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 90*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.ClerkAuthorizedParties)
}

func TestTablePrefixOverride(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TABLE_PREFIX", "pr42_")

	assert.Equal(t, "pr42_", Load().TablePrefix)
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelError))
}
