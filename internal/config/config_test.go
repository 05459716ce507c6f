package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATA_PATH", "DATABASE_URL", "CORS_ORIGINS", "LOG_LEVEL", "HTTP_TIMEOUT_SECONDS", "PREDICT_MAX_TOKENS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "campaigns", cfg.DataTable)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 128, cfg.PredictMaxTokens)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_PATH", "/srv/campaigns.csv")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "http://localhost:8501, http://127.0.0.1:8501")
	t.Setenv("PREDICT_MAX_TOKENS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/srv/campaigns.csv", cfg.DataPath)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:8501", "http://127.0.0.1:8501"}, cfg.CORSOrigins)
	assert.Equal(t, 128, cfg.PredictMaxTokens)
}

func TestPredictMaxTokensClamped(t *testing.T) {
	t.Setenv("PREDICT_MAX_TOKENS", "9999999999")
	assert.Equal(t, MaxPredictTokens, FromEnv().PredictMaxTokens)

	t.Setenv("PREDICT_MAX_TOKENS", "256")
	assert.Equal(t, 256, FromEnv().PredictMaxTokens)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
data_table: analytics.campaigns
http_timeout: 5s
predictor_url: http://model:9000/generate
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")
	t.Setenv("DATA_TABLE", "")
	t.Setenv("PREDICTOR_URL", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Port)
	assert.Equal(t, "analytics.campaigns", cfg.DataTable)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "http://model:9000/generate", cfg.PredictorURL)
}

func TestLoadBadFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
