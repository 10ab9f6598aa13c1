package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/tabsmith/tabsmith/internal/complete"
	"github.com/tabsmith/tabsmith/internal/repl"
	"github.com/tabsmith/tabsmith/internal/timing"
)

// CompleteParams contains parameters for the Complete command.
type CompleteParams struct {
	Line           string
	Point          int
	IndexCachePath string
	LogLevel       string
	Output         io.Writer
}

// ErrInsertTab is returned when completion degrades to a literal tab. The
// shell hook maps the non-zero exit to readline's default behavior.
var ErrInsertTab = fmt.Errorf("insert tab")

// Complete computes candidates for one hook invocation and prints them, one
// per line when piped, as a grid on a terminal.
func Complete(params CompleteParams) error {
	timer := timing.NewTimer()
	defer func() {
		timer.Mark("complete")
		if timing.Enabled() {
			timer.Report(os.Stderr)
		}
	}()

	out := params.Output
	if out == nil {
		out = os.Stdout
	}

	session, err := NewSession(params.IndexCachePath, params.LogLevel)
	if err != nil {
		return err
	}

	point := params.Point
	if point < 0 {
		point = len(params.Line)
	}

	res, err := session.Engine.Complete(params.Line, point)
	if err != nil {
		return err
	}
	defer func() { _ = session.Index.Save() }()

	if res.Action == complete.InsertTab {
		session.Log.Debug().Str("source", res.Source).Msg("completion degraded")
		return ErrInsertTab
	}

	values := res.Values()
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		width := 80
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
		fmt.Fprint(out, repl.FormatColumns(values, width))
		return nil
	}

	for _, value := range values {
		fmt.Fprintln(out, value)
	}
	return nil
}
