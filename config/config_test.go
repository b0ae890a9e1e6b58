package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "recipebox", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "media", cfg.MediaDir)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigInvalidRedisDB(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")

	base := func() *Config {
		return &Config{JWTSecret: "secret", DBName: "recipebox", DBSSLMode: "disable"}
	}

	assert.NoError(t, ValidateConfig(base()))
	assert.Error(t, ValidateConfig(nil))

	cfg := base()
	cfg.JWTSecret = ""
	assert.EqualError(t, ValidateConfig(cfg), "JWT_SECRET is required")

	cfg = base()
	cfg.DBName = ""
	assert.EqualError(t, ValidateConfig(cfg), "DB_NAME is required")
}

func TestValidateConfigProduction(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")

	cfg := &Config{JWTSecret: "secret", DBName: "recipebox", DBSSLMode: "disable"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	cfg.DBPassword = "hunter2"
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_SSL_MODE")

	cfg.DBSSLMode = "require"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestNewS3ConfigDisabledWithoutBucket(t *testing.T) {
	cfg, err := NewS3Config(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
	assert.True(t, IsDevelopment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
