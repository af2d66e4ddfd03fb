package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ENV", "PORT", "ALLOWED_ORIGINS", "GEMINI_API_KEY", "GEMINI_MODEL",
	"GEMINI_TIMEOUT", "INGECHAT_PERSONA", "INGECHAT_DATA_DIR", "LOG_LEVEL",
	"RATE_LIMIT_PER_SECOND", "RATE_LIMIT_BURST", "DAILY_QUOTA", "TEST_GEMINI_KEY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_GEMINI_KEY", "from-env-expansion")

	path := writeConfig(t, `
env: production
server:
  port: "9090"
  allowed_origins: ["https://ingechat.example"]
gemini:
  api_key: ${TEST_GEMINI_KEY}
  timeout: 45s
data:
  dir: /srv/ingechat
rate_limit:
  burst: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://ingechat.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "from-env-expansion", cfg.Gemini.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model, "unset keys keep defaults")
	assert.Equal(t, "/srv/ingechat", cfg.Data.Dir)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, int64(1000), cfg.RateLimit.DailyQuota)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: \"9090\"\n")

	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_PER_SECOND", "0.5")
	t.Setenv("DAILY_QUOTA", "20")
	t.Setenv("INGECHAT_PERSONA", "Eres un asistente breve.")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 0.5, cfg.RateLimit.PerSecond)
	assert.Equal(t, int64(20), cfg.RateLimit.DailyQuota)
	assert.Equal(t, "Eres un asistente breve.", cfg.Gemini.Persona)
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "env: development\n")
	t.Setenv("GEMINI_TIMEOUT", "soon")

	_, err := Load(path)
	assert.ErrorContains(t, err, "GEMINI_TIMEOUT")
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [unclosed\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "info", cfg.Logger.Level)
}
