package config_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/statewire/config"
	"github.com/tailored-agentic-units/statewire/observability"
	"github.com/tailored-agentic-units/statewire/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// isolate runs the test from an empty directory so no stray .env is read.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, "localhost:8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, store.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "json", cfg.Store.Codec)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, config.LogFormatText, cfg.Log.Format)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "statewire.json", `{
		"server": {"addr": ":9090", "shutdown_timeout": "30s"},
		"store": {"backend": "file", "path": "/var/lib/statewire", "codec": "cbor"},
		"log": {"level": "debug"}
	}`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, store.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "/var/lib/statewire", cfg.Store.Path)
	assert.Equal(t, "cbor", cfg.Store.Codec)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.LogFormatText, cfg.Log.Format)
	assert.Equal(t, store.DefaultRedisPrefix, cfg.Store.Redis.Prefix)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = config.LoadFile(writeFile(t, "bad.json", `{"server": `))
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = config.LoadFile(writeFile(t, "bad-duration.json", `{"server": {"shutdown_timeout": "soon"}}`))
	assert.ErrorContains(t, err, "invalid duration")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "statewire.json", `{"server": {"addr": ":9090"}, "store": {"backend": "file"}}`)

	t.Setenv("STATEWIRE_SERVER_ADDR", ":7070")
	t.Setenv("STATEWIRE_SERVER_SHUTDOWN_TIMEOUT", "45s")
	t.Setenv("STATEWIRE_STORE_BACKEND", "Redis")
	t.Setenv("STATEWIRE_STORE_REDIS_ADDR", "cache:6379")
	t.Setenv("STATEWIRE_STORE_REDIS_DB", "3")
	t.Setenv("STATEWIRE_LOG_FORMAT", "JSON")

	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 45*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, store.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
	assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	envFile := writeFile(t, "test.env", "STATEWIRE_STORE_POSTGRES_DSN=postgres://localhost/statewire\nSTATEWIRE_STORE_POSTGRES_ENSURE_SCHEMA=true\n")
	t.Cleanup(func() {
		os.Unsetenv("STATEWIRE_STORE_POSTGRES_DSN")
		os.Unsetenv("STATEWIRE_STORE_POSTGRES_ENSURE_SCHEMA")
	})

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/statewire", cfg.Store.Postgres.DSN)
	assert.True(t, cfg.Store.Postgres.EnsureSchema)
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	isolate(t)
	_, err := config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "load env file")
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := config.Load("", "")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), *cfg)
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("STATEWIRE_STORE_REDIS_DB", "three")

	_, err := config.Load("", "")
	assert.ErrorContains(t, err, "parse environment")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*config.Config)
		check func(*testing.T, *config.Config)
	}{
		{
			name:  "empty addr",
			apply: func(c *config.Config) { c.Server.Addr = "  " },
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "localhost:8080", c.Server.Addr) },
		},
		{
			name:  "short timeout",
			apply: func(c *config.Config) { c.Server.ShutdownTimeout = config.Duration(time.Millisecond) },
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, time.Second, c.Server.ShutdownTimeout.Std()) },
		},
		{
			name:  "long timeout",
			apply: func(c *config.Config) { c.Server.ShutdownTimeout = config.Duration(time.Hour) },
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, 5*time.Minute, c.Server.ShutdownTimeout.Std()) },
		},
		{
			name:  "backend case",
			apply: func(c *config.Config) { c.Store.Backend = " Postgres " },
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, store.BackendPostgres, c.Store.Backend) },
		},
		{
			name:  "unknown log level",
			apply: func(c *config.Config) { c.Log.Level = "loud" },
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "info", c.Log.Level) },
		},
		{
			name:  "negative redis db",
			apply: func(c *config.Config) { c.Store.Redis.DB = -1 },
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, 0, c.Store.Redis.DB) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.apply(&cfg)
			cfg.Sanitize()
			tt.check(t, &cfg)
		})
	}
}

func TestDuration_JSON(t *testing.T) {
	data, err := json.Marshal(config.ServerConfig{ShutdownTimeout: config.Duration(90 * time.Second)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"shutdown_timeout":"1m30s"`)
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LogConfig{Level: "warn", Format: config.LogFormatJSON}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"key":"value"`)
}

func TestLogConfig_NewObserver(t *testing.T) {
	cfg := config.DefaultLogConfig()
	obs, err := cfg.NewObserver(nil)
	require.NoError(t, err)
	assert.IsType(t, &observability.SlogObserver{}, obs)

	cfg.Observer = " NOOP "
	cfg.Sanitize()
	obs, err = cfg.NewObserver(nil)
	require.NoError(t, err)
	assert.Equal(t, observability.NoOpObserver{}, obs)

	cfg.Observer = "otlp"
	_, err = cfg.NewObserver(nil)
	assert.ErrorIs(t, err, observability.ErrUnknownObserver)
}
