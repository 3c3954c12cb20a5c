package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	base := filepath.Join(home, ".daybook")
	assert.Equal(t, "", cfg.ServerURL)
	assert.Equal(t, filepath.Join(base, "journals"), cfg.JournalsDir)
	assert.Equal(t, filepath.Join(base, "pending.json"), cfg.QueuePath)
	assert.Equal(t, 30*time.Second, cfg.FlushInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdirTemp(t)
	t.Setenv("DAYBOOK_SERVER_URL", "https://journal.example.com")
	t.Setenv("DAYBOOK_SERVER_TOKEN", "sekrit")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://journal.example.com", cfg.ServerURL)
	assert.Equal(t, "sekrit", cfg.ServerToken)
}

func TestLoad_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdirTemp(t)

	base := filepath.Join(home, ".daybook")
	require.NoError(t, os.MkdirAll(base, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.yaml"), []byte(`
server:
  url: https://sync.example.com
journals:
  dir: /data/journals
daemon:
  flush_interval: 5s
  debounce: 250ms
`), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://sync.example.com", cfg.ServerURL)
	assert.Equal(t, "/data/journals", cfg.JournalsDir)
	assert.Equal(t, 5*time.Second, cfg.FlushInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceInterval)
}

// chdirTemp moves the test into an empty directory so a developer's local
// config file cannot leak into the run.
func chdirTemp(t *testing.T) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
