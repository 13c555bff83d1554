package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// OAuthClient is one provider's client id/secret/callback triple.
type OAuthClient struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

func (c OAuthClient) Configured() bool {
	return c.ClientID != "" && c.RedirectURL != ""
}

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// SessionSecret signs the session cookie value.
	SessionSecret string `env:"SESSION_SECRET"`

	Google    OAuthClient `envPrefix:"GOOGLE_"`
	Facebook  OAuthClient `envPrefix:"FACEBOOK_"`
	Instagram OAuthClient `envPrefix:"INSTAGRAM_"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, errors.New("config: DATABASE_DSN is required")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("config: SESSION_SECRET is required")
	}

	return cfg, nil
}
