package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/sanctum/config.toml", DefaultPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, DefaultPath(), filepath.Join(".config", "sanctum", "config.toml"))
}

func TestDiscover_EnvOverride(t *testing.T) {
	path := writeConfig(t, "[server]")
	t.Setenv(EnvPath, path)

	got, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	t.Setenv(EnvPath, "/nonexistent/config.toml")
	_, err = Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPath)
}

func TestDiscover_CurrentDir(t *testing.T) {
	t.Setenv(EnvPath, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server]"), 0o644))
	t.Chdir(dir)

	got, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, "./config.toml", got)
}

func TestDiscover_NotFound(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Chdir(t.TempDir())

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config not found")
}
