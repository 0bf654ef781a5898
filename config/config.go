// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	DB        DBConfig
	BaseURL   string `validate:"required,url"`
	Addr      string `validate:"required"`
	LogLevel  slog.Level
	LogFormat string `validate:"oneof=json text"`
}

type DBConfig struct {
	Driver         string `validate:"oneof=mysql postgres"`
	Host           string `validate:"required"`
	Port           int    `validate:"gte=1,lte=65535"`
	User           string `validate:"required"`
	Password       string
	Name           string `validate:"required"`
	Schema         string `validate:"required"`
	SSL            bool
	MaxConns       int `validate:"gte=1"`
	MaxIdle        int `validate:"gte=0"`
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
	SlowQuery      time.Duration
}

// Load reads the environment. A non-nil error means the process cannot
// start.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []string
	intVar := func(key string, def int) int {
		raw := env(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not an integer", key, raw))
			return def
		}
		return n
	}
	durVar := func(key string, def time.Duration) time.Duration {
		raw := env(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a duration", key, raw))
			return def
		}
		return d
	}

	driver := strings.ToLower(env("DB_DRIVER", "mysql"))
	defPort, defSchema := 3306, env("DB_NAME", "")
	if driver == "postgres" {
		defPort, defSchema = 5432, "public"
	}

	cfg := Config{
		DB: DBConfig{
			Driver:         driver,
			Host:           env("DB_HOST", ""),
			Port:           intVar("DB_PORT", defPort),
			User:           env("DB_USER", ""),
			Password:       getenv("DB_PASS"),
			Name:           env("DB_NAME", ""),
			Schema:         env("DB_SCHEMA", defSchema),
			SSL:            env("DB_SSL", "") == "1",
			MaxConns:       intVar("DB_CONN_LIMIT", 5),
			MaxIdle:        intVar("DB_MAX_IDLE", 5),
			IdleTimeout:    durVar("DB_IDLE_TIMEOUT", 60*time.Second),
			ConnectTimeout: durVar("DB_CONNECT_TIMEOUT", 10*time.Second),
			SlowQuery:      durVar("DB_SLOW_QUERY", 200*time.Millisecond),
		},
		BaseURL:   strings.TrimRight(env("BASE_URL", "http://localhost:3001"), "/"),
		Addr:      env("LISTEN_ADDR", ":3001"),
		LogLevel:  parseLevel(env("LOG_LEVEL", "INFO")),
		LogFormat: strings.ToLower(env("LOG_FORMAT", "json")),
	}
	if cfg.DB.MaxIdle > cfg.DB.MaxConns {
		cfg.DB.MaxIdle = cfg.DB.MaxConns
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	if n, err := strconv.Atoi(s); err == nil {
		return slog.Level(n)
	}
	return slog.LevelInfo
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
