package config_test

import (
	"testing"
	"time"

	"adopta-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "adopta-api", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.App.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, config.AuthModeDev, cfg.Auth.Mode)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "animals", cfg.Media.Prefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://adopta.example,https://admin.adopta.example")
	t.Setenv("NOTIFY_TIMEOUT", "2s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"https://adopta.example", "https://admin.adopta.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.Notify.Timeout)
}

func TestLoad_JWTModeRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_UnknownAuthMode(t *testing.T) {
	t.Setenv("AUTH_MODE", "magic")

	_, err := config.Load()
	require.Error(t, err)
}
