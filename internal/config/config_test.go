package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HOST", "PORT", "DATA_DIR", "WATCH_DATASETS", "DATABASE_URL",
		"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET",
		"GENAI_API_KEY", "GENAI_MODEL", "GENAI_BASE_URL", "ENRICH_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.False(t, cfg.Data.Watch)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 8*time.Second, cfg.Enrichment.Timeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "secretsource.yaml")
	content := `
env: production
server:
  port: 9000
data:
  dir: /srv/data
  watch: true
logging:
  level: debug
  format: text
enrichment:
  timeout: 3s
  rate_limits:
    spotify: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/srv/data", cfg.Data.Dir)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 3*time.Second, cfg.Enrichment.Timeout)
	assert.Equal(t, map[string]float64{"spotify": 2.5}, cfg.Enrichment.RateLimits)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not valid"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidEnv(t *testing.T) {
	tests := map[string]string{
		"PORT":           "eighty",
		"WATCH_DATASETS": "sometimes",
		"ENRICH_TIMEOUT": "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Env = "staging"
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"
	cfg.Spotify.ClientID = "id-only"
	cfg.Enrichment.Timeout = 0
	cfg.Enrichment.RateLimits = map[string]float64{"genai": 0}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "SPOTIFY_CLIENT_SECRET", "ENRICH_TIMEOUT", "rate_limits.genai"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
