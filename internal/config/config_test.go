package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PANTRY_CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, TransportStdio, cfg.Transport)
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, 1, cfg.Display.SectionOffset)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transport: http
server:
  port: 9090
storage:
  backend: sqlite
  document: kitchen
display:
  locale: de
  date_layout: "2006-01-02"
strict: true
`), 0o600))

	t.Setenv("PANTRY_CONFIG_PATH", path)
	t.Setenv("PANTRY_SERVER_PORT", "9191")
	t.Setenv("PANTRY_DB_PATH", "/tmp/pantry-test.db")
	t.Setenv("PANTRY_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, TransportHTTP, cfg.Transport)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, BackendSQLite, cfg.Storage.Backend)
	require.Equal(t, "kitchen", cfg.Storage.Document)
	require.Equal(t, "/tmp/pantry-test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "de", cfg.Display.Locale)
	require.Equal(t, "2006-01-02", cfg.Display.DateLayout)
	require.True(t, cfg.Strict)
}

func TestLoad_ExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.yaml")
	flagPath := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(envPath, []byte("log:\n  level: warn\n"), 0o600))
	require.NoError(t, os.WriteFile(flagPath, []byte("log:\n  level: error\n"), 0o600))
	t.Setenv("PANTRY_CONFIG_PATH", envPath)

	cfg, err := Load(flagPath)
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("PANTRY_CONFIG_PATH", "")

	t.Setenv("PANTRY_SERVER_PORT", "eighty")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("PANTRY_SERVER_PORT", "")
	t.Setenv("PANTRY_STRICT", "maybe")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown transport": func(c *Config) { c.Transport = "carrier-pigeon" },
		"unknown backend":   func(c *Config) { c.Storage.Backend = "s3" },
		"missing file path": func(c *Config) { c.Storage.Path = "" },
		"missing db path":   func(c *Config) { c.Storage.Backend = BackendSQLite; c.DB.Path = "" },
		"negative offset":   func(c *Config) { c.Display.SectionOffset = -1 },
		"port out of range": func(c *Config) { c.Server.Port = 70000 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
	require.NoError(t, Default().Validate())
}
