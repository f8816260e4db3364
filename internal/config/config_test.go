package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Sync.DecayPollInterval)
	assert.Equal(t, "file", cfg.Session.Backend)
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  base_url: https://quest.example.com/api/v1/
  timeout: 5s
session:
  backend: sqlite
  path: /tmp/q.db
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://quest.example.com/api/v1", cfg.APIBaseURL())
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "sqlite", cfg.Session.Backend)
	assert.Equal(t, 10, cfg.Sync.LeaderboardLimit, "untouched keys keep defaults")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.BaseURL, cfg.Server.BaseURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  backend: etcd\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  base_url: ftp://x\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Sync.LeaderboardLimit = 25
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Sync.LeaderboardLimit)
	assert.Equal(t, cfg.Server.Timeout, loaded.Server.Timeout)
}
