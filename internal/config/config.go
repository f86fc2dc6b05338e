package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// App holds runtime configuration shared by the TUI, CLI and HTTP server.
type App struct {
	DB       string `env:"DB"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Redis Redis
	Quiz  Quiz
	Tutor Tutor
}

// Redis configures the optional shared question cache.
type Redis struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB" envDefault:"0"`
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool { return r.Addr != "" }

// Quiz groups question resolver settings.
type Quiz struct {
	FallbackDelay time.Duration `env:"FALLBACK_DELAY" envDefault:"1500ms"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"30m"`
}

// Tutor groups chat settings.
type Tutor struct {
	ReplyDelay time.Duration `env:"TUTOR_REPLY_DELAY" envDefault:"1500ms"`
}

const envPrefix = "DEVTUTOR_"

// Load reads an optional .env file from the working directory and parses
// DEVTUTOR_* environment variables into App.
func Load() (*App, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds App from the current environment only.
func Parse() (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Quiz.FallbackDelay < 0 {
		return nil, fmt.Errorf("%sFALLBACK_DELAY must not be negative", envPrefix)
	}
	return cfg, nil
}
