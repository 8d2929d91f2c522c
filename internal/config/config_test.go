package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"HTTP_ADDR", "ENVIRONMENT", "LOG_LEVEL", "SENTRY_DSN", "CORS_ORIGINS",
	"DB_DRIVER", "DATABASE_URL", "DB_PATH",
	"GROK_API_KEY", "GROK_API_URL", "GROK_MODEL", "GROK_TIMEOUT",
	"AMQP_URL", "MAIL_HOST", "MAIL_PORT", "MAIL_USER", "MAIL_PASS", "MAIL_FROM",
}

// clearEnv blanks every key for the test; t.Setenv restores the old values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/leads.db", cfg.DSN())
	assert.Equal(t, "https://api.x.ai/v1", cfg.GrokAPIURL)
	assert.Equal(t, "grok-3-mini", cfg.GrokModel)
	assert.Equal(t, 60*time.Second, cfg.GrokTimeout)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.GrokAPIKey)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://leadflow@localhost/leadflow?sslmode=disable")
	t.Setenv("GROK_API_KEY", "xai-test")
	t.Setenv("GROK_TIMEOUT", "15s")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAIL_PORT", "2525")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://leadflow@localhost/leadflow?sslmode=disable", cfg.DSN())
	assert.Equal(t, "xai-test", cfg.GrokAPIKey)
	assert.Equal(t, 15*time.Second, cfg.GrokTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2525, cfg.MailPort)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":   {"DB_DRIVER": "mysql"},
		"postgres no url":  {"DB_DRIVER": "postgres"},
		"bad timeout":      {"GROK_TIMEOUT": "soon"},
		"negative timeout": {"GROK_TIMEOUT": "-1s"},
		"non numeric port": {"MAIL_PORT": "smtp"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("GROK_MODEL")
	os.Unsetenv("HTTP_ADDR")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GROK_MODEL=grok-4\nHTTP_ADDR=:9999\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "grok-4", cfg.GrokModel)
	assert.Equal(t, ":7000", cfg.HTTPAddr)

	_, err = Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
