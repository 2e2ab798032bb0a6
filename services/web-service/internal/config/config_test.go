package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_URL", "http://api.internal:5001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5173, cfg.Port)
	assert.Equal(t, ":5173", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, "http://api.internal:5001", cfg.PublicAPIURL)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadKeepsPublicAPIURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PUBLIC_API_URL", "https://api.strive.blog")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.strive.blog", cfg.PublicAPIURL)
	assert.True(t, cfg.CookieSecure)
}
