package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHierarchyInfo(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	sub := filepath.Join(tmpDir, "project")
	require.NoError(t, os.MkdirAll(sub, 0755))
	parent := writeConfig(t, tmpDir, ".tabsmith.yml", "aliases:\n  p: parent\n")
	leaf := writeConfig(t, sub, ".tabsmith.yml", "aliases:\n  l: leaf\n")

	info, err := GetHierarchyInfo(sub)
	require.NoError(t, err)
	require.NotNil(t, info.MergedConfig)
	assert.Nil(t, info.GlobalConfig)

	paths := make(map[string]FileInfo)
	for _, fi := range info.LocalConfigs {
		paths[fi.Path] = fi
	}
	require.Contains(t, paths, parent)
	require.Contains(t, paths, leaf)
	assert.True(t, paths[parent].Loaded)
	assert.True(t, paths[leaf].Loaded)
}

func TestGetHierarchyInfo_LocalOnlyMarksLeaf(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	sub := filepath.Join(tmpDir, "project")
	require.NoError(t, os.MkdirAll(sub, 0755))
	parent := writeConfig(t, tmpDir, ".tabsmith.yml", "aliases:\n  p: parent\n")
	leaf := writeConfig(t, sub, ".tabsmith.yml", "local_only: true\naliases:\n  l: leaf\n")

	info, err := GetHierarchyInfo(sub)
	require.NoError(t, err)

	for _, fi := range info.LocalConfigs {
		switch fi.Path {
		case parent:
			assert.False(t, fi.Loaded, "parent should be cut by local_only")
		case leaf:
			assert.True(t, fi.Loaded)
			assert.True(t, fi.LocalOnly)
		}
	}
}

func TestGetConfigDetails(t *testing.T) {
	cfg := &Config{
		Aliases: map[string]any{
			"ll": "ls -la",
			"k": map[string]interface{}{
				"command":    "kubectl",
				"completion": "kubectl",
				"when":       map[string]interface{}{"file": "kubeconfig"},
			},
		},
		Functions: map[string]string{"greet": "echo hi"},
		Vars:      map[string]string{"editor": "vi"},
		Suffixes:  map[string]string{"gcc": `\.c$`},
		LocalOnly: true,
	}

	details := GetConfigDetails(cfg)
	assert.Equal(t, "ls -la", details.Aliases["ll"].Command)
	assert.Equal(t, "kubectl", details.Aliases["k"].CompleteAs)
	assert.True(t, details.Aliases["k"].HasWhen)
	assert.Equal(t, "file:kubeconfig", details.Aliases["k"].WhenSummary)
	assert.Equal(t, []string{"greet"}, details.Functions)
	assert.Equal(t, "vi", details.Vars["editor"])
	assert.Contains(t, details.Suffixes, "gcc")
	assert.Equal(t, []string{"local_only"}, details.Flags)
}

func TestGetConfigDetails_Nil(t *testing.T) {
	details := GetConfigDetails(nil)
	assert.Empty(t, details.Aliases)
	assert.Empty(t, details.Functions)
	assert.Empty(t, details.Flags)
}

func TestSummarizeWhen_Composite(t *testing.T) {
	when := &When{
		Any: []When{
			{Var: "CI"},
			{All: []When{{File: "go.mod"}, {Command: "go"}}},
		},
	}
	summary := summarizeWhen(when)
	assert.Equal(t, "any(var:CI | all(file:go.mod, cmd:go))", summary)
}
