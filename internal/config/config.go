package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront server.
type Config struct {
	AppPort string
	AppEnv  string

	LogLevel  string
	LogFormat string

	DatabaseDriver string // postgres, sqlite or memory
	DatabaseDSN    string

	JWTSecret         string
	JWTExpires        time.Duration
	CookieExpiresDays int

	RabbitMQURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	CORSOrigins string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		AppPort:           v.GetString("APP_PORT"),
		AppEnv:            strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		DatabaseDriver:    strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTExpires:        v.GetDuration("JWT_EXPIRES"),
		CookieExpiresDays: v.GetInt("COOKIE_EXPIRES_DAYS"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		CartTTL:           v.GetDuration("CART_TTL"),
		CORSOrigins:       v.GetString("CORS_ORIGINS"),
		AdminName:         v.GetString("ADMIN_NAME"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("JWT_SECRET", "change_me_in_production")
	v.SetDefault("JWT_EXPIRES", "168h")
	v.SetDefault("COOKIE_EXPIRES_DAYS", 7)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CART_TTL", "720h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("ADMIN_NAME", "Admin")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
}
