package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	path := writeConfig(t, tmpDir, ".tabsmith.yml", "aliases:\n  a: one\n")

	var mu sync.Mutex
	var latest *Config
	w, err := Watch(tmpDir, New(), func(cfg *Config) {
		mu.Lock()
		latest = cfg
		mu.Unlock()
	})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  a: two\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.GetAliases()["a"].Command == "two"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	writeConfig(t, tmpDir, ".tabsmith.yml", "aliases:\n  a: one\n")

	var mu sync.Mutex
	calls := 0
	w, err := Watch(tmpDir, New(), func(*Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(600 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestIsConfigName(t *testing.T) {
	assert.True(t, isConfigName(".tabsmith.yml"))
	assert.True(t, isConfigName(".tabsmith.toml"))
	assert.True(t, isConfigName(GlobalConfigName))
	assert.False(t, isConfigName("notes.txt"))
}
