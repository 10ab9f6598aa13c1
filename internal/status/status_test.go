package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabsmith/tabsmith/internal/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestCollectAll_NoConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SHELL", "/bin/bash")

	data, err := CollectAll(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, err)

	assert.Equal(t, "bash", data.Shell)
	assert.False(t, data.HookInstalled)
	assert.Empty(t, data.LocalConfigs)
	require.NotNil(t, data.Index)
	require.NotNil(t, data.Registry)
	assert.Greater(t, data.Registry.Handlers, 0)
	assert.Greater(t, data.Registry.SuffixRules, 0)
}

func TestCollectAll_WithProjectConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := `
aliases:
  gs: git status
suffixes:
  untex: '\.tex$'
local_only: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tabsmith.yml"), []byte(cfg), 0644))
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SHELL", "/bin/bash")

	data, err := CollectAll(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, err)

	assert.True(t, data.HasAnyConfig)
	require.Len(t, data.LocalConfigs, 1)
	assert.True(t, data.LocalConfigs[0].Loaded)
	assert.Contains(t, data.Aliases, "gs")
	assert.Contains(t, data.Suffixes, "untex")
	assert.Contains(t, data.Flags, "local_only")
}

func TestRender(t *testing.T) {
	data := &Data{
		CurrentDir: "/tmp/project",
		Version:    "1.2.3",
		Shell:      "bash",
		RCFile:     "/home/u/.bashrc",
		Aliases: map[string]config.AliasInfo{
			"gs": {Command: "git status"},
			"k":  {Command: "kubectl", CompleteAs: "kubectl"},
		},
		Functions: []string{"greet"},
		Vars:      map[string]string{"EDITOR": "vim"},
		Suffixes:  map[string]string{"untex": `\.tex$`},
		Flags:     []string{"local_only"},
		Options: config.Options{
			Paring:      true,
			Cycle:       true,
			CycleCutoff: 5,
			ShowSymbols: config.ShowSymbolsFallback,
		},
		Index:    &IndexInfo{Path: "/cache/index.json", Size: 2048, Dirs: 3, Commands: 140},
		Registry: &RegistryInfo{Handlers: 15, SuffixRules: 12},
	}

	out := Render(data)

	assert.Contains(t, out, "/tmp/project")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "Not installed")
	assert.Contains(t, out, "tabsmith setup bash")
	assert.Contains(t, out, "gs")
	assert.Contains(t, out, "git status")
	assert.Contains(t, out, "completes as kubectl")
	assert.Contains(t, out, "greet()")
	assert.Contains(t, out, "EDITOR")
	assert.Contains(t, out, "untex")
	assert.Contains(t, out, "local_only")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "cutoff 5")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "140")
}

func TestRender_HookInstalled(t *testing.T) {
	data := &Data{
		Shell:         "zsh",
		HookInstalled: true,
		RCFile:        "/home/u/.zshrc",
		Index:         &IndexInfo{},
	}
	out := Render(data)
	assert.Contains(t, out, "Installed")
	assert.Contains(t, out, "/home/u/.zshrc")
	assert.NotContains(t, out, "tabsmith setup")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KB", formatBytes(1024))
	assert.Equal(t, "1.5 MB", formatBytes(1572864))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 50))
	long := truncateString(string(make([]byte, 100)), 10)
	assert.Len(t, long, 10)
}
