package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"pocketledger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Store struct {
		Path string `envconfig:"STORE_PATH" default:"data/pocketledger.db"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET" default:"change-me"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
