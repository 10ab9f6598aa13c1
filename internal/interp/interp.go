// Package interp holds user-defined variables and functions and evaluates the
// small expression language allowed inside $( ) substitutions.
package interp

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Interp is safe for concurrent use: the REPL mutates it while completion
// reads it.
type Interp struct {
	mu    sync.RWMutex
	vars  map[string]string
	funcs map[string]string
}

// New creates an empty interpreter state.
func New() *Interp {
	return &Interp{
		vars:  make(map[string]string),
		funcs: make(map[string]string),
	}
}

// SetVar defines or overwrites a variable.
func (in *Interp) SetVar(name, value string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.vars[name] = value
}

// UnsetVar removes a variable.
func (in *Interp) UnsetVar(name string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.vars, name)
}

// Var returns a variable's value.
func (in *Interp) Var(name string) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	v, ok := in.vars[name]
	return v, ok
}

// VarNames returns the defined variable names, sorted.
func (in *Interp) VarNames() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	names := make([]string, 0, len(in.vars))
	for name := range in.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefineFunction defines or overwrites a named function body.
func (in *Interp) DefineFunction(name, body string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.funcs[name] = body
}

// Function returns a function body.
func (in *Interp) Function(name string) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	body, ok := in.funcs[name]
	return body, ok
}

// FunctionNames returns the defined function names, sorted.
func (in *Interp) FunctionNames() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	names := make([]string, 0, len(in.funcs))
	for name := range in.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Symbols returns every function and variable name, sorted and deduplicated.
// Symbol completion draws from this set.
func (in *Interp) Symbols() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	seen := make(map[string]struct{}, len(in.funcs)+len(in.vars))
	symbols := make([]string, 0, len(in.funcs)+len(in.vars))
	for name := range in.funcs {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			symbols = append(symbols, name)
		}
	}
	for name := range in.vars {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			symbols = append(symbols, name)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// ExpandVar resolves $name: interpreter variables first, then the process
// environment.
func (in *Interp) ExpandVar(name string) (string, bool) {
	if v, ok := in.Var(name); ok {
		return v, true
	}
	return os.LookupEnv(name)
}

// EvalSubexpr evaluates the source of a $( ) or ( ) form. The language is a
// single operand or a left-to-right chain of + - * / over numbers. Operands
// are numeric literals, quoted strings, or variable references. Anything else
// is an error, which keeps the raw source in the argument.
func (in *Interp) EvalSubexpr(src string) (any, error) {
	toks, err := splitExpr(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty expression")
	}

	if len(toks) == 1 {
		return in.operand(toks[0])
	}

	if len(toks)%2 == 0 {
		return nil, fmt.Errorf("malformed expression %q", src)
	}

	acc, err := in.numericOperand(toks[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(toks); i += 2 {
		op := toks[i]
		rhs, err := in.numericOperand(toks[i+1])
		if err != nil {
			return nil, err
		}
		acc, err = apply(acc, op, rhs)
		if err != nil {
			return nil, err
		}
	}
	return acc.value(), nil
}

// operand resolves a single-token expression to a typed value.
func (in *Interp) operand(tok string) (any, error) {
	if len(tok) >= 2 && (tok[0] == '"' || tok[0] == '\'') && tok[len(tok)-1] == tok[0] {
		return tok[1 : len(tok)-1], nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	name := strings.TrimPrefix(tok, "$")
	if v, ok := in.ExpandVar(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("undefined variable %q", name)
}

type number struct {
	i       int64
	f       float64
	isFloat bool
}

func (n number) value() any {
	if n.isFloat {
		return n.f
	}
	return n.i
}

func (n number) asFloat() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (in *Interp) numericOperand(tok string) (number, error) {
	v, err := in.operand(tok)
	if err != nil {
		return number{}, err
	}
	switch x := v.(type) {
	case int64:
		return number{i: x}, nil
	case float64:
		return number{f: x, isFloat: true}, nil
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return number{i: n}, nil
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return number{f: f, isFloat: true}, nil
		}
		return number{}, fmt.Errorf("%q is not a number", tok)
	default:
		return number{}, fmt.Errorf("%q is not a number", tok)
	}
}

func apply(lhs number, op string, rhs number) (number, error) {
	if op == "/" {
		if rhs.asFloat() == 0 {
			return number{}, fmt.Errorf("division by zero")
		}
		return number{f: lhs.asFloat() / rhs.asFloat(), isFloat: true}, nil
	}

	if lhs.isFloat || rhs.isFloat {
		l, r := lhs.asFloat(), rhs.asFloat()
		switch op {
		case "+":
			return number{f: l + r, isFloat: true}, nil
		case "-":
			return number{f: l - r, isFloat: true}, nil
		case "*":
			return number{f: l * r, isFloat: true}, nil
		}
		return number{}, fmt.Errorf("unknown operator %q", op)
	}

	switch op {
	case "+":
		return number{i: lhs.i + rhs.i}, nil
	case "-":
		return number{i: lhs.i - rhs.i}, nil
	case "*":
		return number{i: lhs.i * rhs.i}, nil
	}
	return number{}, fmt.Errorf("unknown operator %q", op)
}

// splitExpr splits on whitespace while keeping quoted strings intact.
func splitExpr(src string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(src) {
		c := src[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if c == '"' || c == '\'' {
			j := i + 1
			for j < len(src) && src[j] != c {
				j++
			}
			if j == len(src) {
				return nil, fmt.Errorf("unterminated string in expression")
			}
			toks = append(toks, src[i:j+1])
			i = j + 1
			continue
		}
		j := i
		for j < len(src) && src[j] != ' ' && src[j] != '\t' {
			j++
		}
		toks = append(toks, src[i:j])
		i = j
	}
	return toks, nil
}
