package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2, cfg.Writer.FormatVersion)
	assert.Equal(t, "data", cfg.Writer.Content)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".manifestctl.yml")

	cfg := DefaultConfig()
	cfg.Writer.FormatVersion = 1
	cfg.Writer.Content = "deletes"
	cfg.Logging.Level = "debug"

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Writer.FormatVersion)
	assert.Equal(t, "deletes", loaded.Writer.Content)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
