package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("ADMIN_ID", "1000")
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/aigram")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(1000), cfg.AdminID)
	assert.Equal(t, defaultFreeDailyLimit, cfg.FreeDailyLimit)
	assert.Equal(t, time.Duration(defaultPremiumDays)*24*time.Hour, cfg.PremiumDuration)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("FREE_DAILY_LIMIT", "10")
	t.Setenv("PREMIUM_DAYS", "7")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10, cfg.FreeDailyLimit)
	assert.Equal(t, 7*24*time.Hour, cfg.PremiumDuration)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoad_MissingRequiredVariable(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := LoadEnvironmentVariables()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestLoad_RejectsBadNumbers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_ID", "not-a-number")

	_, err := LoadEnvironmentVariables()
	require.Error(t, err)

	setRequiredEnv(t)
	t.Setenv("FREE_DAILY_LIMIT", "-1")

	_, err = LoadEnvironmentVariables()
	require.Error(t, err)
}
