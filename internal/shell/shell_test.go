package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("bash"))
	assert.True(t, Supported("zsh"))
	assert.False(t, Supported("fish"))
	assert.False(t, Supported(""))
}

func TestDetect(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/zsh")
	assert.Equal(t, Zsh, Detect())

	t.Setenv("SHELL", "/bin/bash")
	assert.Equal(t, Bash, Detect())

	t.Setenv("SHELL", "")
	assert.Equal(t, Bash, Detect())
}

func TestNewGenerator(t *testing.T) {
	for _, name := range []string{Bash, Zsh} {
		gen, err := NewGenerator(name)
		require.NoError(t, err)
		assert.Equal(t, name, gen.Name())
	}

	_, err := NewGenerator("fish")
	assert.Error(t, err)
}

func TestGenerator_Hook(t *testing.T) {
	tests := []struct {
		shell    string
		contains []string
	}{
		{
			shell: Bash,
			contains: []string{
				"_tabsmith_complete",
				`/opt/tabsmith complete --shell bash`,
				"complete -o nospace -F _tabsmith_complete -D",
			},
		},
		{
			shell: Zsh,
			contains: []string{
				"bashcompinit",
				`/opt/tabsmith complete --shell zsh`,
				"complete -o nospace -F _tabsmith_complete -D",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			gen, err := NewGenerator(tt.shell)
			require.NoError(t, err)
			script, err := gen.Hook("/opt/tabsmith")
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, script, want)
			}
			assert.NotContains(t, script, "{{")
		})
	}
}

func TestGenerator_Hook_DefaultBinPath(t *testing.T) {
	gen, err := NewGenerator(Bash)
	require.NoError(t, err)
	script, err := gen.Hook("")
	require.NoError(t, err)
	assert.Contains(t, script, "tabsmith complete --shell bash")
}
