package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("API_URL", "https://api.strive.blog")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://strive.blog,https://www.strive.blog")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MINIO_BUCKET", "covers")
	t.Setenv("GITHUB_REDIRECT_URL", "https://strive.blog/gh")
	t.Setenv("FRONTEND_URL", "https://strive.blog")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "top-secret", cfg.Token.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Token.ExpiresIn)
	assert.Equal(t, []string{"https://strive.blog", "https://www.strive.blog"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "covers", cfg.MinIO.Bucket)
	assert.Equal(t, "strive_blog", cfg.MongoDB.Database)
	assert.Equal(t, "https://api.strive.blog/api/auth/google/callback", cfg.Google.RedirectURL)
	assert.Equal(t, "https://strive.blog/gh", cfg.GitHub.RedirectURL)
	assert.Empty(t, cfg.AuthorAdminEmails)
	assert.Equal(t, "https://strive.blog/reset-password", cfg.PasswordResetURL)
	assert.Equal(t, 30*time.Minute, cfg.PasswordResetExpiresIn)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
