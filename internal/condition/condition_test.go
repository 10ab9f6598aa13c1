package condition

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabsmith/tabsmith/internal/config"
)

func TestFileCondition(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "Makefile")
	require.NoError(t, os.WriteFile(path, []byte("all:\n"), 0644))

	ctx := Context{WorkingDir: tmpDir}

	t.Run("existing file", func(t *testing.T) {
		ok, err := FileCondition{Path: "Makefile"}.Evaluate(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		ok, err := FileCondition{Path: "missing"}.Evaluate(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		ok, err := FileCondition{Path: "."}.Evaluate(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("env expansion", func(t *testing.T) {
		ctx := Context{WorkingDir: tmpDir, Env: map[string]string{"NAME": "Makefile"}}
		ok, err := FileCondition{Path: "$NAME"}.Evaluate(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestDirCondition(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "vendor"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "go.sum"), nil, 0644))

	ctx := Context{WorkingDir: tmpDir}

	ok, err := DirCondition{Path: "vendor"}.Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DirCondition{Path: "go.sum"}.Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = DirCondition{Path: "missing"}.Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVarCondition(t *testing.T) {
	ctx := Context{Env: map[string]string{"SET": "yes", "EMPTY": ""}}

	ok, err := VarCondition{Name: "SET"}.Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VarCondition{Name: "EMPTY"}.Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VarCondition{Name: "TABSMITH_SURELY_UNSET_VAR"}.Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommandCondition(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix commands")
	}

	ok, err := CommandCondition{Name: "sh"}.Evaluate(Context{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CommandCondition{Name: "tabsmith-no-such-command"}.Evaluate(Context{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComposites(t *testing.T) {
	ctx := Context{Env: map[string]string{"A": "1", "B": ""}}

	all := AllCondition{Conditions: []Condition{
		VarCondition{Name: "A"},
		VarCondition{Name: "B"},
	}}
	ok, err := all.Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	any := AnyCondition{Conditions: []Condition{
		VarCondition{Name: "B"},
		VarCondition{Name: "A"},
	}}
	ok, err = any.Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		when    *config.When
		wantErr bool
	}{
		{name: "nil", when: nil, wantErr: true},
		{name: "empty", when: &config.When{}, wantErr: true},
		{name: "single atomic", when: &config.When{File: "go.mod"}},
		{name: "multiple atomics become all", when: &config.When{File: "go.mod", Var: "CI"}},
		{name: "all list", when: &config.When{All: []config.When{{Var: "CI"}, {File: "go.mod"}}}},
		{name: "any list", when: &config.When{Any: []config.When{{Var: "CI"}, {File: "go.mod"}}}},
		{
			name:    "atomic mixed with composite",
			when:    &config.When{File: "go.mod", All: []config.When{{Var: "CI"}}},
			wantErr: true,
		},
		{
			name:    "all and any together",
			when:    &config.When{All: []config.When{{Var: "CI"}}, Any: []config.When{{Var: "CI"}}},
			wantErr: true,
		},
		{
			name:    "empty nested clause",
			when:    &config.When{All: []config.When{{}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := Parse(tt.when)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cond)
		})
	}
}

func TestParse_MultipleAtomicsAreANDed(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "go.mod"), nil, 0644))

	cond, err := Parse(&config.When{File: "go.mod", Var: "TABSMITH_SURELY_UNSET_VAR"})
	require.NoError(t, err)

	ok, err := cond.Evaluate(Context{WorkingDir: tmpDir})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActive(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "go.mod"), nil, 0644))
	ctx := Context{WorkingDir: tmpDir}

	assert.True(t, Active(nil, ctx))
	assert.True(t, Active(&config.When{File: "go.mod"}, ctx))
	assert.False(t, Active(&config.When{File: "missing"}, ctx))
	// Invalid guards deactivate instead of erroring.
	assert.False(t, Active(&config.When{}, ctx))
}
