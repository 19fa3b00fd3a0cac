// Package config loads application configuration from environment
// variables and an optional YAML file.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the configuration values for the application.
type Config struct {
	// Address is the server's listening address (ip:port).
	Address string `yaml:"address" env:"SERVER_ADDRESS" env-default:"localhost:8080"`
	// DatabaseDSN is the PostgreSQL connection string.
	DatabaseDSN string `yaml:"database_dsn" env:"DATABASE_DSN" env-required:"true"`
	// LogLevel sets the zap log level.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	// JWTSecret signs access tokens. Must be at least 32 characters.
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	// JWTIssuer is the issuer claim on access tokens.
	JWTIssuer string `yaml:"jwt_issuer" env:"JWT_ISSUER" env-default:"lifeceo"`
	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
}

// Load parses the -c/-config flag and reads configuration from the file (if
// present) with environment variables taking precedence.
func Load() (*Config, error) {
	var path string
	flag.StringVar(&path, "config", "", "path to config file")
	flag.StringVar(&path, "c", "", "path to config file (shorthand)")
	flag.Parse()

	if env := os.Getenv("CONFIG"); env != "" {
		path = env
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return &cfg, nil
}
