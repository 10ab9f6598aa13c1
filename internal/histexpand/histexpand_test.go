package histexpand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceHistory []string

func (h sliceHistory) Len() int        { return len(h) }
func (h sliceHistory) At(i int) string { return h[i] }

var events = sliceHistory{
	"ls -l /tmp",
	"git status",
	"make install",
	"git commit -m wip",
}

func TestExpand_Bang(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "double bang", line: "!!", want: "git commit -m wip"},
		{name: "double bang with suffix", line: "sudo !!", want: "sudo git commit -m wip"},
		{name: "numeric event", line: "!2", want: "git status"},
		{name: "relative event", line: "!-2", want: "make install"},
		{name: "relative one is last", line: "!-1", want: "git commit -m wip"},
		{name: "prefix match newest first", line: "!git", want: "git commit -m wip"},
		{name: "prefix match older", line: "!ls", want: "ls -l /tmp"},
		{name: "last word", line: "vim !$", want: "vim wip"},
		{name: "embedded designator", line: "echo !2 done", want: "echo git status done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Expand(tt.line, events)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_Literal(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "no bang", line: "ls -l"},
		{name: "bang at end", line: "echo hi!"},
		{name: "bang before space", line: "echo ! hi"},
		{name: "bang before equals", line: "test 1 != 2"},
		{name: "escaped bang", line: `echo \!2`},
		{name: "single quoted bang", line: "echo '!2'"},
		{name: "bare dash", line: "echo !-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Expand(tt.line, events)
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, tt.line, got)
		})
	}
}

func TestExpand_DoubleQuotedStillExpands(t *testing.T) {
	got, changed, err := Expand(`echo "!2"`, events)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, `echo "git status"`, got)
}

func TestExpand_EventNotFound(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "numeric out of range", line: "!99"},
		{name: "zero event", line: "!0"},
		{name: "relative out of range", line: "!-99"},
		{name: "prefix without match", line: "!nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Expand(tt.line, events)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "event not found")
		})
	}
}

func TestExpand_EmptyHistory(t *testing.T) {
	_, _, err := Expand("!!", sliceHistory{})
	require.Error(t, err)

	_, _, err = Expand("!!", nil)
	require.Error(t, err)

	got, changed, err := Expand("no designators here", nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "no designators here", got)
}

func TestExpand_LastWordOfEmptyEvent(t *testing.T) {
	_, _, err := Expand("vim !$", sliceHistory{"   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event not found")
}
