package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHome points HOME at a temp dir so RC files land there.
func fakeHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestGetRCFilePath(t *testing.T) {
	home := fakeHome(t)

	path, err := GetRCFilePath("bash")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".bashrc"), path)

	path, err = GetRCFilePath("zsh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".zshrc"), path)

	_, err = GetRCFilePath("fish")
	assert.Error(t, err)
}

func TestInstallHook_FreshFile(t *testing.T) {
	home := fakeHome(t)

	res, err := InstallHook("bash")
	require.NoError(t, err)
	assert.True(t, res.Updated)

	data, err := os.ReadFile(filepath.Join(home, ".bashrc"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, HookMarkerStart)
	assert.Contains(t, content, HookMarkerEnd)
	assert.Contains(t, content, `eval "$(tabsmith hook bash)"`)
}

func TestInstallHook_PreservesExistingContent(t *testing.T) {
	home := fakeHome(t)
	rcFile := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(rcFile, []byte("export PATH=$PATH:~/bin\n"), 0644))

	_, err := InstallHook("bash")
	require.NoError(t, err)

	data, err := os.ReadFile(rcFile)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "export PATH=$PATH:~/bin\n"))
	assert.Contains(t, content, HookMarkerStart)
}

func TestInstallHook_Idempotent(t *testing.T) {
	home := fakeHome(t)

	res, err := InstallHook("bash")
	require.NoError(t, err)
	assert.True(t, res.Updated)

	res, err = InstallHook("bash")
	require.NoError(t, err)
	assert.False(t, res.Updated)

	data, err := os.ReadFile(filepath.Join(home, ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), HookMarkerStart))
}

func TestInstallHook_ReplacesStaleBlock(t *testing.T) {
	home := fakeHome(t)
	rcFile := filepath.Join(home, ".bashrc")
	stale := HookMarkerStart + "\nsource /old/tabsmith/hook.sh\n" + HookMarkerEnd + "\n"
	require.NoError(t, os.WriteFile(rcFile, []byte(stale), 0644))

	needs, err := NeedsUpdate("bash")
	require.NoError(t, err)
	assert.True(t, needs)

	res, err := InstallHook("bash")
	require.NoError(t, err)
	assert.True(t, res.Updated)

	data, err := os.ReadFile(rcFile)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "/old/tabsmith/hook.sh")
	assert.Contains(t, content, `eval "$(tabsmith hook bash)"`)
	assert.Equal(t, 1, strings.Count(content, HookMarkerStart))

	needs, err = NeedsUpdate("bash")
	require.NoError(t, err)
	assert.False(t, needs)
}

func TestIsHookInstalled(t *testing.T) {
	fakeHome(t)

	installed, err := IsHookInstalled("bash")
	require.NoError(t, err)
	assert.False(t, installed)

	_, err = InstallHook("bash")
	require.NoError(t, err)

	installed, err = IsHookInstalled("bash")
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestUninstallHook(t *testing.T) {
	home := fakeHome(t)
	rcFile := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(rcFile, []byte("alias ll='ls -l'\n"), 0644))

	_, err := InstallHook("bash")
	require.NoError(t, err)

	res, err := UninstallHook("bash")
	require.NoError(t, err)
	assert.True(t, res.Updated)

	data, err := os.ReadFile(rcFile)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, HookMarkerStart)
	assert.Contains(t, content, "alias ll='ls -l'")
}

func TestUninstallHook_NotInstalled(t *testing.T) {
	fakeHome(t)

	res, err := UninstallHook("bash")
	require.NoError(t, err)
	assert.False(t, res.Updated)
}

func TestRemoveMarkedSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "block in the middle",
			content: "before\n" + HookMarkerStart + "\nhook\n" + HookMarkerEnd + "\nafter",
			want:    "before\nafter",
		},
		{
			name:    "block only",
			content: HookMarkerStart + "\nhook\n" + HookMarkerEnd,
			want:    "",
		},
		{
			name:    "no markers",
			content: "just content\n",
			want:    "just content\n",
		},
		{
			name:    "end before start is left alone",
			content: HookMarkerEnd + "\n" + HookMarkerStart,
			want:    HookMarkerEnd + "\n" + HookMarkerStart,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeMarkedSection(tt.content, HookMarkerStart, HookMarkerEnd))
		})
	}
}
