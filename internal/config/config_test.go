package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpires)
	assert.Equal(t, 7, cfg.CookieExpiresDays)
	assert.Equal(t, 720*time.Hour, cfg.CartTTL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("APP_ENV", "PRODUCTION")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("JWT_EXPIRES", "2h")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpires)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.IsDevelopment())
}
