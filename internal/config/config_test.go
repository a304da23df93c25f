package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "us-east-1", cfg.Email.SES.Region)
	assert.Equal(t, 300, cfg.Messaging.SweepIntervalSeconds)
	assert.Equal(t, "tca_session", cfg.Auth.CookieName)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
email:
  provider: smtp
  sender_name: Grace Chapel
  sender_email: hello@gracechapel.org
  smtp:
    host: smtp.example.com
messaging:
  sweep_interval_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "Grace Chapel", cfg.Email.SenderName)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	assert.Equal(t, 587, cfg.Email.SMTP.Port) // default still applied
	assert.Equal(t, 60, cfg.Messaging.SweepIntervalSeconds)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("SENDER_EMAIL", "env@church.org")
	t.Setenv("MESSAGING_SERVICE_TOKEN", "tok-123")

	cfg, err := LoadFromEnv("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://x", cfg.Database.URL)
	assert.Equal(t, "env@church.org", cfg.Email.SenderEmail)
	assert.Equal(t, "tok-123", cfg.Messaging.ServiceToken)
}
