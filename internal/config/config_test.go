package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolated returns options that never see files outside a temp dir.
func isolated(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{SearchPaths: []string{dir}, EnvFile: filepath.Join(dir, ".env")}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "starweeb.db", cfg.Store.Path)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisURL)
	assert.Equal(t, "", cfg.TextGen.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.TextGen.Model)
	assert.Equal(t, 10*time.Second, cfg.TextGen.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	opts := isolated(t)
	dir := opts.SearchPaths[0]
	yaml := "store:\n  backend: badger\n  path: data/badger\ntextgen:\n  timeout: 3s\n  model: local-model\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "starweeb.yaml"), []byte(yaml), 0o644))

	t.Setenv("STARWEEB_TEXTGEN_MODEL", "env-model")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, BackendBadger, cfg.Store.Backend)
	assert.Equal(t, "data/badger", cfg.Store.Path)
	assert.Equal(t, 3*time.Second, cfg.TextGen.Timeout)
	assert.Equal(t, "env-model", cfg.TextGen.Model, "environment beats the file")
}

func TestLoad_EnvFile(t *testing.T) {
	opts := isolated(t)
	require.NoError(t, os.WriteFile(opts.EnvFile, []byte("STARWEEB_STORE_BACKEND=memory\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("STARWEEB_STORE_BACKEND") })

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestLoad_ExplicitFile(t *testing.T) {
	opts := isolated(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	opts.ConfigFile = path

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	opts.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = Load(opts)
	assert.Error(t, err)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STARWEEB_STORE_BACKEND", "postgres")
	_, err := Load(isolated(t))
	assert.ErrorContains(t, err, "unknown store.backend")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Store:   StoreConfig{Backend: BackendSQLite, Path: "x.db"},
		TextGen: TextGenConfig{Timeout: time.Second},
		Log:     LogConfig{Level: "info"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mut  func(c *Config)
	}{
		{"sqlite without path", func(c *Config) { c.Store.Path = "" }},
		{"badger without path", func(c *Config) { c.Store.Backend = BackendBadger; c.Store.Path = "" }},
		{"redis without url", func(c *Config) { c.Store.Backend = BackendRedis; c.Store.RedisURL = "" }},
		{"zero timeout", func(c *Config) { c.TextGen.Timeout = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mut(&c)
			assert.Error(t, c.Validate())
		})
	}

	mem := valid
	mem.Store = StoreConfig{Backend: BackendMemory}
	assert.NoError(t, mem.Validate())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
