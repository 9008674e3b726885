package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  url: "postgres://localhost/test"
email:
  smtp_host: "smtp.test"
  smtp_port: 2525
  enabled: true
telegram:
  bot_token: "tok"
  chat_id: 42
scheduler:
  weekly_spec: "0 0 18 * * MON"
  reminder_hours_ahead: 48
auth:
  jwt_secret: "s3cret"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, "0 0 18 * * MON", cfg.Scheduler.WeeklySpec)
	assert.Equal(t, 48, cfg.Scheduler.ReminderHoursAhead)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)

	// unset fields fall back to defaults
	assert.Equal(t, "0 0 10 15 * *", cfg.Scheduler.MonthlySpec)
	assert.Equal(t, "0 0 9 * * *", cfg.Scheduler.ReminderSpec)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMins)
	assert.Equal(t, "./files", cfg.Files.RootDir)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0 0 17 * * FRI", cfg.Scheduler.WeeklySpec)
	assert.Equal(t, 72, cfg.Scheduler.ReminderHoursAhead)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
