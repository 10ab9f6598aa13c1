package complete

import (
	"errors"
	"os"
	"strings"

	"github.com/tabsmith/tabsmith/internal/alias"
	"github.com/tabsmith/tabsmith/internal/config"
	"github.com/tabsmith/tabsmith/internal/lineparse"
	"github.com/tabsmith/tabsmith/internal/logger"
)

// JobMonitor reports whether a foreground job owns the terminal. With the
// suppress_while_busy option set, completion refuses to run while one does.
type JobMonitor interface {
	ForegroundActive() bool
}

// SymbolSource enumerates interpreter symbols for symbol completion and
// named functions for the command slot.
type SymbolSource interface {
	Symbols() []string
	FunctionNames() []string
}

// Expander rewrites an input line before tokenization; history expansion is
// the shipped implementation. changed reports whether anything was
// substituted.
type Expander func(line string) (expanded string, changed bool, err error)

// Params configures an Engine. Registry defaults to a fresh registry with
// the default providers; Dir defaults to the working directory.
type Params struct {
	Options   config.Options
	Registry  *Registry
	Index     *CommandIndex
	Aliases   *alias.Store
	Symbols   SymbolSource
	Jobs      JobMonitor
	Evaluator lineparse.Evaluator
	Dir       string
	Logger    *logger.Logger
}

// Engine answers completion requests. All state is fixed at construction;
// every request reparses the line from scratch.
type Engine struct {
	opts      config.Options
	registry  *Registry
	index     *CommandIndex
	aliases   *alias.Store
	symbols   SymbolSource
	jobs      JobMonitor
	eval      lineparse.Evaluator
	dir       string
	log       *logger.Logger
	expanders []Expander
	excludeFn func(name string) bool
}

// NewEngine creates an engine from p.
func NewEngine(p Params) *Engine {
	e := &Engine{
		opts:     p.Options,
		registry: p.Registry,
		index:    p.Index,
		aliases:  p.Aliases,
		symbols:  p.Symbols,
		jobs:     p.Jobs,
		eval:     p.Evaluator,
		dir:      p.Dir,
		log:      p.Logger,
	}
	if e.registry == nil {
		e.registry = NewRegistry()
		RegisterDefaults(e.registry)
	}
	if e.index == nil {
		e.index = NewCommandIndex("", p.Options.ForceExecution)
	}
	if e.dir == "" {
		e.dir, _ = os.Getwd()
	}
	if e.log == nil {
		e.log = logger.New("error", nil)
	}
	return e
}

// Options returns the engine's completion options.
func (e *Engine) Options() config.Options {
	return e.opts
}

// Registry returns the engine's handler registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Index returns the engine's command index.
func (e *Engine) Index() *CommandIndex {
	return e.index
}

// Dir returns the directory file completion is anchored to.
func (e *Engine) Dir() string {
	return e.dir
}

// RegisterExpander appends an input expander run by ExpandAndComplete, in
// registration order.
func (e *Engine) RegisterExpander(x Expander) {
	e.expanders = append(e.expanders, x)
}

// SetExcludeFunction installs the hook that removes function names from the
// command slot.
func (e *Engine) SetExcludeFunction(f func(name string) bool) {
	e.excludeFn = f
}

// Complete computes the candidate set for the argument slot under point.
// Failures degrade to the InsertTab action; the error is reserved for
// internal inconsistencies and is nil in normal operation.
func (e *Engine) Complete(line string, point int) (*Result, error) {
	if point < 0 {
		point = 0
	}
	if point > len(line) {
		point = len(line)
	}

	if e.opts.SuppressWhileBusy && e.jobs != nil && e.jobs.ForegroundActive() {
		e.log.Debug().Msg("completion suppressed: foreground job active")
		return insertTab("busy"), nil
	}

	args, err := lineparse.Parse(line, point, e.eval)
	if err != nil {
		return e.degrade(line, point, err), nil
	}
	return e.completeArgs(line, point, args), nil
}

// ExpandAndComplete runs the registered input expanders over the line,
// recomputes the end offset when anything changed, then completes. An
// expander failure degrades to InsertTab on the original line.
func (e *Engine) ExpandAndComplete(line string, point int) (string, int, *Result, error) {
	expanded := line
	for _, x := range e.expanders {
		out, changed, err := x(expanded)
		if err != nil {
			e.log.Debug().Err(err).Msg("input expansion failed")
			return line, point, insertTab("expand"), nil
		}
		if changed {
			expanded = out
		}
	}
	if expanded != line {
		point = len(expanded)
	}
	res, err := e.Complete(expanded, point)
	return expanded, point, res, err
}

// degrade maps a tokenization failure to the fallback the construct calls
// for: unterminated braces re-tokenize past the opener so the body
// completes as nested arguments, unterminated parens switch to symbol
// completion, everything else aborts to a literal tab.
func (e *Engine) degrade(line string, point int, err error) *Result {
	var delim *lineparse.DelimiterError
	if errors.As(err, &delim) {
		switch delim.Delim {
		case '{':
			args, rerr := lineparse.ParseFrom(line, delim.Pos+1, point, e.eval)
			if rerr != nil {
				return e.degrade(line, point, rerr)
			}
			return e.completeArgs(line, point, args)
		case '(':
			return e.symbolResult(line, point)
		}
	}
	e.log.Debug().Err(err).Msg("completion aborted")
	return insertTab("abort")
}

func (e *Engine) completeArgs(line string, point int, args lineparse.Args) *Result {
	if len(args) == 0 {
		args = lineparse.Args{{Text: "", Pos: point}}
	}

	cur, _ := args.Last()
	slot := len(args) - 1
	if slot == 0 {
		return e.completeCommand(cur, point)
	}
	return e.completeArgument(args, slot, point)
}

// completeCommand computes the slot-0 candidate set: path executables,
// aliases, opt-in functions, then symbols last, first occurrence winning.
func (e *Engine) completeCommand(cur lineparse.Arg, end int) *Result {
	seed := cur.Text
	start := cur.Pos

	explicit := false
	if strings.HasPrefix(seed, string(ExplicitMarker)) {
		explicit = true
		seed = seed[1:]
		if start < end {
			start++
		}
	}

	// A seed with a directory component is a path, not a name to search.
	if dontSearch(seed) {
		cands, err := fileCandidates(e.dir, seed, !e.opts.ForceExecution, nil)
		if err != nil {
			return insertTab("path-files")
		}
		return &Result{
			Action:     Suggest,
			Seed:       seed,
			Replace:    [2]int{start, end},
			Candidates: filterCandidates(cands, seed, e.opts.IgnoreCase, e.opts.Paring),
			Source:     "path-files",
		}
	}

	var base []Candidate
	for _, name := range e.index.Commands() {
		base = append(base, Candidate{Value: name})
	}
	if !explicit {
		if e.aliases != nil {
			for _, name := range e.aliases.Names() {
				base = append(base, Candidate{Value: name, Description: "alias"})
			}
		}
		if e.opts.CompleteFunctions && e.symbols != nil {
			for _, name := range e.symbols.FunctionNames() {
				if e.excludeFn != nil && e.excludeFn(name) {
					continue
				}
				base = append(base, Candidate{Value: name, Description: "function"})
			}
		}
	}

	cands := filterCandidates(base, seed, e.opts.IgnoreCase, e.opts.Paring)

	if !explicit && e.symbols != nil {
		show := e.opts.ShowSymbols
		if show == config.ShowSymbolsAlways || (show == config.ShowSymbolsFallback && len(cands) == 0) {
			var syms []Candidate
			for _, name := range e.symbols.Symbols() {
				syms = append(syms, Candidate{Value: name, Description: "symbol"})
			}
			syms = filterCandidates(syms, seed, e.opts.IgnoreCase, e.opts.Paring)
			cands = appendNew(cands, syms, e.opts.Paring)
		}
	}

	return &Result{
		Action:     Suggest,
		Seed:       seed,
		Replace:    [2]int{start, end},
		Candidates: cands,
		Source:     "commands",
	}
}

// completeArgument computes a slot ≥ 1 candidate set through the resolved
// handler, defaulting to file completion narrowed by the suffix table.
func (e *Engine) completeArgument(args lineparse.Args, slot, end int) *Result {
	cur := args[slot]
	seed := cur.Text
	ignoreExt := ignoreExtensions(e.opts.IgnoreFileExtensions)
	name, _ := CanonicalCommand(args[0].Text, ignoreExt)

	if e.aliases != nil {
		if a, ok := e.aliases.Get(name); ok {
			target, ok := a.CompletionTarget()
			if !ok {
				return insertTab("alias-disabled")
			}
			name, _ = CanonicalCommand(target, ignoreExt)
		}
	}

	if h, ok := e.registry.Handler(name); ok {
		cands, err := h.Complete(ArgContext{
			Engine:  e,
			Command: name,
			Args:    args.Texts(),
			Seed:    seed,
			Index:   slot,
			Dir:     e.dir,
		})
		if err != nil {
			e.log.Debug().Str("command", name).Err(err).Msg("handler failed")
			return insertTab("handler")
		}
		return &Result{
			Action:     Suggest,
			Seed:       seed,
			Replace:    [2]int{cur.Pos, end},
			Candidates: filterCandidates(cands, seed, e.opts.IgnoreCase, e.opts.Paring),
			Source:     "handler:" + name,
		}
	}

	cands, err := fileCandidates(e.dir, seed, false, e.registry.SuffixFilter(name))
	if err != nil {
		return insertTab("files")
	}
	return &Result{
		Action:     Suggest,
		Seed:       seed,
		Replace:    [2]int{cur.Pos, end},
		Candidates: filterCandidates(cands, seed, e.opts.IgnoreCase, e.opts.Paring),
		Source:     "files",
	}
}

// symbolResult completes the identifier fragment before point against the
// interpreter's symbols, the fallback for an open evaluable expression.
func (e *Engine) symbolResult(line string, point int) *Result {
	start := point
	for start > 0 && isSymbolByte(line[start-1]) {
		start--
	}
	seed := line[start:point]

	var cands []Candidate
	if e.symbols != nil {
		for _, name := range e.symbols.Symbols() {
			cands = append(cands, Candidate{Value: name, Description: "symbol"})
		}
	}
	return &Result{
		Action:     Suggest,
		Seed:       seed,
		Replace:    [2]int{start, point},
		Candidates: filterCandidates(cands, seed, e.opts.IgnoreCase, e.opts.Paring),
		Source:     "symbols",
	}
}

// appendNew appends extra to cands; with paring set, values already present
// are skipped.
func appendNew(cands, extra []Candidate, paring bool) []Candidate {
	if !paring {
		return append(cands, extra...)
	}
	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		seen[c.Value] = struct{}{}
	}
	for _, c := range extra {
		if _, dup := seen[c.Value]; dup {
			continue
		}
		seen[c.Value] = struct{}{}
		cands = append(cands, c)
	}
	return cands
}

func isSymbolByte(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
