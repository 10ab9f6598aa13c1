package complete

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDontSearch(t *testing.T) {
	assert.True(t, dontSearch("./run"))
	assert.True(t, dontSearch("../run"))
	assert.True(t, dontSearch(".."))
	assert.True(t, dontSearch("bin/tool"))
	assert.False(t, dontSearch("tool"))
	assert.False(t, dontSearch(".hidden"))
}

func setupFileTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	return dir
}

func values(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Value
	}
	return out
}

func TestFileCandidates(t *testing.T) {
	dir := setupFileTree(t)
	sep := string(filepath.Separator)

	t.Run("plain listing hides dotfiles", func(t *testing.T) {
		cands, err := fileCandidates(dir, "", false, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"main.c", "main.go", "run.sh", "src" + sep}, values(cands))
	})

	t.Run("dotted seed shows only dotfiles", func(t *testing.T) {
		cands, err := fileCandidates(dir, ".", false, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{".env", ".git" + sep}, values(cands))
	})

	t.Run("executable filter keeps directories", func(t *testing.T) {
		cands, err := fileCandidates(dir, "", true, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"run.sh", "src" + sep}, values(cands))
	})

	t.Run("suffix filter applies to files only", func(t *testing.T) {
		cands, err := fileCandidates(dir, "", false, regexp.MustCompile(`\.[cC]$`))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"main.c", "src" + sep}, values(cands))
	})

	t.Run("seed with directory prefix", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.c"), nil, 0644))
		cands, err := fileCandidates(dir, "src"+sep, false, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"src" + sep + "lib.c"}, values(cands))
	})

	t.Run("missing directory errors", func(t *testing.T) {
		_, err := fileCandidates(dir, "nope"+sep, false, nil)
		assert.Error(t, err)
	})
}

func TestDirCandidates(t *testing.T) {
	dir := setupFileTree(t)
	sep := string(filepath.Separator)

	cands, err := dirCandidates(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"src" + sep}, values(cands))
}
