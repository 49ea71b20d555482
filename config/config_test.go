package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, DefaultDBURI, cfg.Database.URI)
	require.Equal(t, int32(10), cfg.Database.MaxConns)
	require.Equal(t, DefaultHTTPPort, cfg.HTTP.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvFileOverridesDefault(t *testing.T) {
	path := writeEnvFile(t, "DB_URI=postgres://localhost/posts\nHTTP_PORT=9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost/posts", cfg.Database.URI)
	require.Equal(t, "9090", cfg.HTTP.Port)
}

func TestLoad_EnvironmentOverridesEnvFile(t *testing.T) {
	path := writeEnvFile(t, "DB_URI=postgres://localhost/posts\n")
	t.Setenv("DB_URI", "memory://")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "memory://", cfg.Database.URI)
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Setenv("DB_URI", "sqlite+aiosqlite:///database.db")

	_, err := Load("")
	require.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestLoad_EmptyURIFromFile(t *testing.T) {
	path := writeEnvFile(t, "DB_URI=\n")

	_, err := Load(path)
	require.ErrorIs(t, err, ErrEmptyURI)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid config")
}
