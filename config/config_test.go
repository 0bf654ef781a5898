package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		"DB_HOST": "db.internal",
		"DB_USER": "viewer",
		"DB_NAME": "nursing_skills",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, "nursing_skills", cfg.DB.Schema)
	assert.Equal(t, 5, cfg.DB.MaxConns)
	assert.Equal(t, 60*time.Second, cfg.DB.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.DB.ConnectTimeout)
	assert.False(t, cfg.DB.SSL)
	assert.Equal(t, "http://localhost:3001", cfg.BaseURL)
	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		"DB_HOST":       "db",
		"DB_PORT":       "3307",
		"DB_USER":       "u",
		"DB_PASS":       "p",
		"DB_NAME":       "n",
		"DB_SSL":        "1",
		"DB_CONN_LIMIT": "2",
		"BASE_URL":      "http://viewer:8080/",
		"LOG_LEVEL":     "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3307, cfg.DB.Port)
	assert.True(t, cfg.DB.SSL)
	assert.Equal(t, 2, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MaxIdle)
	assert.Equal(t, "http://viewer:8080", cfg.BaseURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Postgres(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		"DB_DRIVER": "postgres",
		"DB_HOST":   "db",
		"DB_USER":   "u",
		"DB_NAME":   "n",
	}))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "public", cfg.DB.Schema)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(envMap(map[string]string{"DB_USER": "u", "DB_NAME": "n"}))
	assert.Error(t, err, "missing host")

	_, err = load(envMap(map[string]string{
		"DB_HOST": "db", "DB_USER": "u", "DB_NAME": "n", "DB_PORT": "abc",
	}))
	assert.Error(t, err)

	_, err = load(envMap(map[string]string{
		"DB_HOST": "db", "DB_USER": "u", "DB_NAME": "n", "DB_DRIVER": "oracle",
	}))
	assert.Error(t, err)
}
