package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/tabsmith/tabsmith/internal/interp"
	"github.com/tabsmith/tabsmith/internal/lineparse"
)

// ParseParams contains parameters for the Parse command.
type ParseParams struct {
	Line   string
	Point  int
	Output io.Writer
}

// Parse tokenizes a line and prints the argument slots, a debugging aid for
// completion behavior.
func Parse(params ParseParams) error {
	out := params.Output
	if out == nil {
		out = os.Stdout
	}

	point := params.Point
	if point < 0 || point > len(params.Line) {
		point = len(params.Line)
	}

	args, err := lineparse.Parse(params.Line, point, interp.New())
	if err != nil {
		fmt.Fprintf(out, "parse error: %v\n", err)
		return nil
	}

	if len(args) == 0 {
		fmt.Fprintln(out, "no arguments before point")
		return nil
	}

	for i, arg := range args {
		role := "argument"
		if i == 0 {
			role = "command"
		}
		fmt.Fprintf(out, "%d: %-8s %q at %d\n", i, role, arg.Text, arg.Pos)
	}
	return nil
}
