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

	assert.Equal(t, "~/.config/lectern", cfg.Storage.Path)
	assert.Equal(t, "lectern.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "wal", cfg.Storage.SQLiteJournalMode)
	assert.Equal(t, "~/docs", cfg.Library.Root)
	assert.Contains(t, cfg.Library.Extensions, ".md")
	assert.Equal(t, 0, cfg.Retention.Days)
	assert.Equal(t, 15, cfg.Goals.DailyMinutes)
	assert.Equal(t, "127.0.0.1", cfg.Daemon.Host)
	assert.Equal(t, 7719, cfg.Daemon.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "auto", cfg.Reader.Theme)
	assert.Equal(t, 100, cfg.Reader.WordWrap)
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
library:
  root: /srv/docs
retention:
  days: 90
daemon:
  port: 9000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "/srv/docs", cfg.Library.Root)
	assert.Equal(t, 90, cfg.Retention.Days)
	assert.Equal(t, 9000, cfg.Daemon.Port)

	// Untouched values keep defaults
	assert.Equal(t, "lectern.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "127.0.0.1", cfg.Daemon.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [not: valid"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoadOrCreateAt_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadOrCreateAt(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// The file should now exist and load back cleanly.
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	reloaded, err := LoadOrCreateAt(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/.config/lectern")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "lectern"), expanded)

	plain, err := ExpandPath("/var/lib/lectern")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/lectern", plain)
}
