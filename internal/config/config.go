// Package config loads service settings from defaults, an optional config
// file and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration.
type Config struct {
	Env            string
	Port           string
	DatabaseDriver string
	DatabaseDSN    string
	RabbitMQURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	LogLevel       string
	LogPretty      bool
	BcryptCost     int
	DefaultPerPage int
	MaxPerPage     int
}

// SetDefaults registers the default of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "memory")
	v.SetDefault("DATABASE_DSN", "galaxia.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("DEFAULT_PER_PAGE", 10)
	v.SetDefault("MAX_PER_PAGE", 100)
}

// Load builds a Config. When CONFIG_FILE is set, that file is read first and
// environment variables still take precedence over it.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper reads a Config out of v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:            strings.ToLower(v.GetString("APP_ENV")),
		Port:           v.GetString("APP_PORT"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogPretty:      v.GetBool("LOG_PRETTY"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		DefaultPerPage: v.GetInt("DEFAULT_PER_PAGE"),
		MaxPerPage:     v.GetInt("MAX_PER_PAGE"),
	}

	if cfg.Port != "" && !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	switch cfg.Env {
	case "dev", "test", "prod":
	default:
		return nil, fmt.Errorf("unknown APP_ENV %q", cfg.Env)
	}
	switch cfg.DatabaseDriver {
	case "memory", "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.MaxPerPage < 1 {
		return nil, fmt.Errorf("MAX_PER_PAGE must be positive")
	}
	if cfg.DefaultPerPage < 1 || cfg.DefaultPerPage > cfg.MaxPerPage {
		return nil, fmt.Errorf("DEFAULT_PER_PAGE must be between 1 and MAX_PER_PAGE")
	}
	return cfg, nil
}
