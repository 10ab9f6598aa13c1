// Package repl hosts the interactive shell: a liner-based line editor with
// tabsmith completion, history expansion, and background job tracking.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/tabsmith/tabsmith/internal/alias"
	"github.com/tabsmith/tabsmith/internal/complete"
	"github.com/tabsmith/tabsmith/internal/histexpand"
	"github.com/tabsmith/tabsmith/internal/interp"
	"github.com/tabsmith/tabsmith/internal/jobs"
	"github.com/tabsmith/tabsmith/internal/lineparse"
	"github.com/tabsmith/tabsmith/internal/logger"
)

// Params configures a REPL.
type Params struct {
	Engine      *complete.Engine
	Interp      *interp.Interp
	Jobs        *jobs.Table
	Aliases     *alias.Store
	HistoryPath string
	Shell       string
	Out         io.Writer
	Logger      *logger.Logger
}

// REPL is one interactive session.
type REPL struct {
	engine   *complete.Engine
	interp   *interp.Interp
	jobs     *jobs.Table
	aliases  *alias.Store
	histPath string
	history  history
	shell    string
	out      io.Writer
	log      *logger.Logger
}

// history adapts the session's lines to the expansion interface.
type history []string

func (h history) Len() int        { return len(h) }
func (h history) At(i int) string { return h[i] }

// New creates a REPL from p.
func New(p Params) *REPL {
	r := &REPL{
		engine:   p.Engine,
		interp:   p.Interp,
		jobs:     p.Jobs,
		aliases:  p.Aliases,
		histPath: p.HistoryPath,
		shell:    p.Shell,
		out:      p.Out,
		log:      p.Logger,
	}
	if r.interp == nil {
		r.interp = interp.New()
	}
	if r.jobs == nil {
		r.jobs = jobs.NewTable()
	}
	if r.aliases == nil {
		r.aliases = alias.NewStore()
	}
	if r.shell == "" {
		r.shell = os.Getenv("SHELL")
	}
	if r.shell == "" {
		r.shell = "/bin/sh"
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.log == nil {
		r.log = logger.New("error", nil)
	}
	if r.engine == nil {
		r.engine = complete.NewEngine(complete.Params{
			Aliases:   r.aliases,
			Symbols:   r.interp,
			Jobs:      r.jobs,
			Evaluator: r.interp,
			Logger:    r.log,
		})
	}
	r.engine.RegisterExpander(func(line string) (string, bool, error) {
		return histexpand.Expand(line, r.history)
	})
	return r
}

// Run reads and executes lines until EOF or an exit builtin. The context
// cancels any running foreground command.
func (r *REPL) Run(ctx context.Context) error {
	editor := liner.NewLiner()
	defer func() { _ = editor.Close() }()

	editor.SetCtrlCAborts(true)
	if r.engine.Options().Cycle {
		editor.SetTabCompletionStyle(liner.TabCircular)
	} else {
		editor.SetTabCompletionStyle(liner.TabPrints)
	}
	editor.SetWordCompleter(r.completeWord)

	r.loadHistory(editor)
	defer r.saveHistory(editor)

	for {
		for _, job := range r.jobs.Reap() {
			fmt.Fprintf(r.out, "[%d] done  %s\n", job.ID, job.Command)
		}

		line, err := editor.Prompt(r.prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		expanded, changed, err := histexpand.Expand(line, r.history)
		if err != nil {
			fmt.Fprintf(r.out, "tabsmith: %v\n", err)
			continue
		}
		if changed {
			fmt.Fprintln(r.out, expanded)
			line = expanded
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		r.history = append(r.history, trimmed)
		editor.AppendHistory(trimmed)

		handled, quit, err := r.builtin(trimmed)
		if err != nil {
			fmt.Fprintf(r.out, "tabsmith: %v\n", err)
		}
		if quit {
			return nil
		}
		if handled {
			continue
		}

		if err := r.execute(ctx, trimmed); err != nil {
			fmt.Fprintf(r.out, "tabsmith: %v\n", err)
		}
	}
}

func (r *REPL) prompt() string {
	dir, err := os.Getwd()
	if err != nil {
		return "$ "
	}
	return filepath.Base(dir) + " $ "
}

// completeWord bridges the engine to liner's word completer. An InsertTab
// outcome inserts a literal tab, matching the terminal's expectation that
// the keypress always does something.
func (r *REPL) completeWord(line string, pos int) (string, []string, string) {
	res, err := r.engine.Complete(line, pos)
	if err != nil || res.Action == complete.InsertTab {
		return line[:pos] + "\t", nil, line[pos:]
	}

	values := res.Values()
	if len(values) == 0 {
		return line[:pos], nil, line[pos:]
	}

	opts := r.engine.Options()
	if opts.Cycle && opts.CycleCutoff > 0 && len(values) > opts.CycleCutoff {
		// Too many candidates to cycle through: list them and insert the
		// common prefix instead.
		if opts.AutoList {
			fmt.Fprintln(r.out)
			fmt.Fprint(r.out, FormatColumns(values, r.width()))
		}
		if prefix := commonPrefix(values); prefix != "" && prefix != res.Seed {
			values = []string{prefix}
		}
	}

	return line[:res.Replace[0]], values, line[res.Replace[1]:]
}

func (r *REPL) width() int {
	if f, ok := r.out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			return w
		}
	}
	return 80
}

// execute runs line as an external command, expanding a leading alias first.
// A trailing & detaches the command as a background job.
func (r *REPL) execute(ctx context.Context, line string) error {
	line = r.expandAlias(line)

	background := false
	if strings.HasSuffix(line, "&") {
		background = true
		line = strings.TrimSpace(strings.TrimSuffix(line, "&"))
		if line == "" {
			return errors.New("nothing to run in background")
		}
	}

	cmd := exec.CommandContext(ctx, r.shell, "-c", line)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.out
	cmd.Stderr = os.Stderr
	cmd.Env = r.environ()

	if background {
		if err := cmd.Start(); err != nil {
			return err
		}
		job := r.jobs.AddBackground(line, cmd.Process.Pid)
		fmt.Fprintf(r.out, "[%d] %d\n", job.ID, job.Pid)
		go func() {
			_ = cmd.Wait()
			r.jobs.Finish(job.ID)
		}()
		return nil
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	r.jobs.SetForeground(line, cmd.Process.Pid)
	defer r.jobs.ClearForeground()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return err
	}
	return nil
}

// expandAlias rewrites line when its first word names an alias.
func (r *REPL) expandAlias(line string) string {
	args, err := lineparse.Parse(line, len(line), r.interp)
	if err != nil || len(args) == 0 {
		return line
	}
	a, ok := r.aliases.Get(args[0].Text)
	if !ok {
		return line
	}
	expanded, err := a.Expand(args.Texts()[1:])
	if err != nil {
		r.log.Debug().Str("alias", a.Name).Err(err).Msg("alias expansion failed")
		return line
	}
	return expanded
}

func (r *REPL) environ() []string {
	env := os.Environ()
	for _, name := range r.interp.VarNames() {
		if value, ok := r.interp.Var(name); ok {
			env = append(env, name+"="+value)
		}
	}
	return env
}

func (r *REPL) loadHistory(editor *liner.State) {
	if r.histPath == "" {
		return
	}
	f, err := os.Open(r.histPath)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	_, _ = editor.ReadHistory(f)
}

func (r *REPL) saveHistory(editor *liner.State) {
	if r.histPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.histPath), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(r.histPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	_, _ = editor.WriteHistory(f)
}
