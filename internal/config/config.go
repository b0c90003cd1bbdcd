package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string        `env:"SERVER_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`

	DBDriver       string `env:"DB_DRIVER" env-default:"mysql"`
	DBDSN          string `env:"DB_DSN" env-default:"user:password@tcp(localhost:3306)/agency?charset=utf8mb4&parseTime=True&loc=Local"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"10"`

	RedisAddr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" env-default:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET" env-default:"change-me"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`

	PublicBaseURL      string `env:"PUBLIC_BASE_URL" env-default:"http://localhost:5000"`
	ContactNotifyEmail string `env:"CONTACT_NOTIFY_EMAIL" env-default:"hello@trivedia.com"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from the environment, reading an optional .env file first.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	switch cfg.DBDriver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	return &cfg, nil
}

// Usage returns the documented list of environment variables.
func Usage() string {
	var cfg Config
	desc, _ := cleanenv.GetDescription(&cfg, nil)
	return desc
}
