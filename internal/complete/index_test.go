package complete

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0755))
}

func writePlainFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644))
}

func TestCommandIndex_Commands(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "git")
	writeExecutable(t, bin, "go")
	writePlainFile(t, bin, "README")
	require.NoError(t, os.Mkdir(filepath.Join(bin, "subdir"), 0755))

	ix := NewCommandIndex("", false)
	ix.SetSearchPath([]string{bin})

	assert.Equal(t, []string{"git", "go"}, ix.Commands())
	assert.True(t, ix.Has("git"))
	assert.False(t, ix.Has("README"))
}

func TestCommandIndex_FirstDirWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeExecutable(t, first, "git")
	writeExecutable(t, second, "git")
	writeExecutable(t, second, "hg")

	ix := NewCommandIndex("", false)
	ix.SetSearchPath([]string{first, second})

	assert.Equal(t, []string{"git", "hg"}, ix.Commands())
}

func TestCommandIndex_ForceExecution(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "tool")
	writePlainFile(t, bin, "script")

	strict := NewCommandIndex("", false)
	strict.SetSearchPath([]string{bin})
	assert.Equal(t, []string{"tool"}, strict.Commands())

	loose := NewCommandIndex("", true)
	loose.SetSearchPath([]string{bin})
	assert.Equal(t, []string{"script", "tool"}, loose.Commands())
}

func TestCommandIndex_RescanOnMtimeChange(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "one")

	ix := NewCommandIndex("", false)
	ix.SetSearchPath([]string{bin})
	assert.Equal(t, []string{"one"}, ix.Commands())

	writeExecutable(t, bin, "two")
	// Bump the directory mtime well past the cached snapshot.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(bin, future, future))

	assert.Equal(t, []string{"one", "two"}, ix.Commands())
}

func TestCommandIndex_CachePersistence(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "cached")
	cachePath := filepath.Join(t.TempDir(), "cache", "index.json")

	ix := NewCommandIndex(cachePath, false)
	ix.SetSearchPath([]string{bin})
	require.Equal(t, []string{"cached"}, ix.Commands())
	require.NoError(t, ix.Save())

	_, err := os.Stat(cachePath)
	require.NoError(t, err)

	reloaded := NewCommandIndex(cachePath, false)
	reloaded.SetSearchPath([]string{bin})
	dirs, commands := reloaded.Stats()
	assert.Equal(t, 1, dirs)
	assert.Equal(t, 1, commands)
	assert.Equal(t, []string{"cached"}, reloaded.Commands())
}

func TestCommandIndex_CacheDiscardedOnModeMismatch(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "cached")
	cachePath := filepath.Join(t.TempDir(), "index.json")

	ix := NewCommandIndex(cachePath, false)
	ix.SetSearchPath([]string{bin})
	require.NotEmpty(t, ix.Commands())
	require.NoError(t, ix.Save())

	// A different force_execution setting invalidates the whole cache.
	other := NewCommandIndex(cachePath, true)
	dirs, _ := other.Stats()
	assert.Equal(t, 0, dirs)
}

func TestCommandIndex_Clear(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "tool")
	cachePath := filepath.Join(t.TempDir(), "index.json")

	ix := NewCommandIndex(cachePath, false)
	ix.SetSearchPath([]string{bin})
	require.NotEmpty(t, ix.Commands())
	require.NoError(t, ix.Save())

	require.NoError(t, ix.Clear())
	dirs, commands := ix.Stats()
	assert.Equal(t, 0, dirs)
	assert.Equal(t, 0, commands)
	_, err := os.Stat(cachePath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, ix.Clear())
}

func TestCommandIndex_MissingDir(t *testing.T) {
	ix := NewCommandIndex("", false)
	ix.SetSearchPath([]string{filepath.Join(t.TempDir(), "does-not-exist")})
	assert.Empty(t, ix.Commands())
}
