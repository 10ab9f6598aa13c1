package repl

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const gridGap = 2

// FormatColumns lays values out in columns fitting width, row-major like ls.
// A non-positive width falls back to one value per line.
func FormatColumns(values []string, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width <= 0 {
		return strings.Join(values, "\n") + "\n"
	}

	colWidth := 0
	for _, v := range values {
		if w := runewidth.StringWidth(v); w > colWidth {
			colWidth = w
		}
	}
	colWidth += gridGap

	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}
	rows := (len(values) + cols - 1) / cols

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := row*cols + col
			if i >= len(values) {
				break
			}
			v := values[i]
			b.WriteString(v)
			if col < cols-1 && i+1 < len(values) {
				b.WriteString(strings.Repeat(" ", colWidth-runewidth.StringWidth(v)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// commonPrefix returns the longest prefix shared by all values.
func commonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		for !strings.HasPrefix(v, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
