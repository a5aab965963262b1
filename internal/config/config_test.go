package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()
		assert.Equal(t, "postgres", cfg.DBDriver)
		assert.Equal(t, 24*time.Hour, cfg.CDNReadCredentialLifetime)
		assert.Equal(t, 24*time.Hour, cfg.BackupInfoLifetime)
		assert.Equal(t, 72*time.Hour, cfg.UploadReuseWindow)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "mediavault", cfg.MetricsNamespace)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("UPLOAD_REUSE_WINDOW_HOURS", "24")
		t.Setenv("APP_VERSION", "1.2.3")

		cfg := Load()
		assert.Equal(t, "mysql", cfg.DBDriver)
		assert.Equal(t, 24*time.Hour, cfg.UploadReuseWindow)
		assert.Equal(t, "1.2.3", cfg.AppVersion)
	})
}

func TestGetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "unknown"}).GetGinMode())
}
