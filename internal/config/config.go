// Package config loads service configuration from VIGIL_-prefixed
// environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends selectable at startup.
const (
	BackendPostgres = "postgres"
	BackendDynamo   = "dynamo"
	BackendMemory   = "memory"
)

// Config is the full process configuration. The JWT secret is injected here
// and handed to the token codec at construction; nothing below main reads
// the environment.
type Config struct {
	ListenAddr string `env:"VIGIL_LISTEN_ADDR" envDefault:":8080"`

	StoreBackend string `env:"VIGIL_STORE_BACKEND" envDefault:"memory"`
	PostgresDSN  string `env:"VIGIL_PG_DSN"`
	DynamoTable  string `env:"VIGIL_DYNAMO_TABLE" envDefault:"vigil-accounts"`
	AWSRegion    string `env:"VIGIL_AWS_REGION" envDefault:"us-east-1"`

	JWTSecret       string        `env:"VIGIL_JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"VIGIL_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"VIGIL_REFRESH_TOKEN_TTL" envDefault:"168h"`

	// Optional static signup guard; when both are set the signup endpoint
	// requires matching X-Access-Token and X-Secret-Token headers.
	SignupAccessToken string `env:"VIGIL_SIGNUP_ACCESS_TOKEN"`
	SignupSecretToken string `env:"VIGIL_SIGNUP_SECRET_TOKEN"`

	ShutdownTimeout time.Duration `env:"VIGIL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses and validates configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: VIGIL_JWT_SECRET is required")
	}
	switch c.StoreBackend {
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: VIGIL_PG_DSN is required for the postgres backend")
		}
	case BackendDynamo:
		if c.DynamoTable == "" {
			return errors.New("config: VIGIL_DYNAMO_TABLE is required for the dynamo backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unsupported store backend %q", c.StoreBackend)
	}
	return nil
}
