package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidysea/notes/internal/client"
)

func clearEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"NOTES_API_URL", "LISTEN_ADDR", "DATABASE_URL", "COOKIE_SECURE", "CORS_ORIGINS", "SESSION_MAX_AGE", "SESSION_SWEEP_SCHEDULE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, client.DefaultBaseURL, cfg.API.URL)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.False(t, cfg.HTTP.CookieSecure)
	assert.Empty(t, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "notes-web.sqlite", cfg.Database.URL)
	assert.Equal(t, 7*24*time.Hour, cfg.Sessions.MaxAge)
	assert.Equal(t, "0 * * * *", cfg.Sessions.SweepSchedule)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTES_API_URL", "http://127.0.0.1:8000/")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.URL)
	assert.True(t, cfg.HTTP.CookieSecure)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.CORSOrigins)
}

func TestLoad_InvalidSessionMaxAge(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_MAX_AGE", "-1h")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_MAX_AGE")
}

func TestLoad_InvalidCookieSecure(t *testing.T) {
	clearEnv(t)
	t.Setenv("COOKIE_SECURE", "sometimes")

	_, err := Load()
	assert.Error(t, err)
}
