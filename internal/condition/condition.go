// Package condition evaluates the `when:` guards that gate alias
// definitions. A guard that fails simply drops the alias from the
// completion tables; nothing is reported to the user.
package condition

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tabsmith/tabsmith/internal/config"
)

// Context supplies the environment a condition is evaluated against.
type Context struct {
	// Env overlays the process environment during $VAR expansion.
	Env map[string]string
	// WorkingDir anchors relative paths.
	WorkingDir string
}

func (ctx Context) expandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		if val, ok := ctx.Env[key]; ok {
			return val
		}
		return os.Getenv(key)
	})
}

func (ctx Context) resolvePath(path string) string {
	path = ctx.expandEnv(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ctx.WorkingDir, path)
}

// Condition is one testable guard.
type Condition interface {
	// Evaluate reports whether the condition holds. The error covers
	// evaluation failures (filesystem trouble), not a false result.
	Evaluate(ctx Context) (bool, error)
}

// FileCondition holds when Path exists and is a regular file.
type FileCondition struct {
	Path string
}

// Evaluate implements Condition.
func (c FileCondition) Evaluate(ctx Context) (bool, error) {
	info, err := os.Stat(ctx.resolvePath(c.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", c.Path, err)
	}
	return !info.IsDir(), nil
}

// DirCondition holds when Path exists and is a directory.
type DirCondition struct {
	Path string
}

// Evaluate implements Condition.
func (c DirCondition) Evaluate(ctx Context) (bool, error) {
	info, err := os.Stat(ctx.resolvePath(c.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", c.Path, err)
	}
	return info.IsDir(), nil
}

// VarCondition holds when the named variable is set and non-empty.
type VarCondition struct {
	Name string
}

// Evaluate implements Condition.
func (c VarCondition) Evaluate(ctx Context) (bool, error) {
	if val, ok := ctx.Env[c.Name]; ok {
		return val != "", nil
	}
	return os.Getenv(c.Name) != "", nil
}

// CommandCondition holds when the named command resolves on $PATH.
type CommandCondition struct {
	Name string
}

// Evaluate implements Condition.
func (c CommandCondition) Evaluate(_ Context) (bool, error) {
	_, err := exec.LookPath(c.Name)
	return err == nil, nil
}

// AllCondition holds when every sub-condition holds.
type AllCondition struct {
	Conditions []Condition
}

// Evaluate implements Condition.
func (c AllCondition) Evaluate(ctx Context) (bool, error) {
	for _, cond := range c.Conditions {
		ok, err := cond.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// AnyCondition holds when at least one sub-condition holds.
type AnyCondition struct {
	Conditions []Condition
}

// Evaluate implements Condition.
func (c AnyCondition) Evaluate(ctx Context) (bool, error) {
	for _, cond := range c.Conditions {
		ok, err := cond.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Parse converts a config.When clause into a Condition tree. Atomic fields
// (file, dir, var, command) and composite lists (all, any) may not mix at
// one level, and all/any may not appear together.
func Parse(when *config.When) (Condition, error) {
	if when == nil {
		return nil, fmt.Errorf("when is nil")
	}

	atomic := atomicConditions(when)
	composite := 0
	if len(when.All) > 0 {
		composite++
	}
	if len(when.Any) > 0 {
		composite++
	}

	switch {
	case len(atomic) == 0 && composite == 0:
		return nil, fmt.Errorf("when block must specify at least one condition")
	case len(atomic) > 0 && composite > 0:
		return nil, fmt.Errorf("cannot mix atomic and composite conditions at the same level")
	case composite == 2:
		return nil, fmt.Errorf("cannot have both 'all' and 'any' at the same level")
	}

	if len(when.All) > 0 {
		conds, err := parseList(when.All, "all")
		if err != nil {
			return nil, err
		}
		return AllCondition{Conditions: conds}, nil
	}
	if len(when.Any) > 0 {
		conds, err := parseList(when.Any, "any")
		if err != nil {
			return nil, err
		}
		return AnyCondition{Conditions: conds}, nil
	}

	if len(atomic) == 1 {
		return atomic[0], nil
	}
	return AllCondition{Conditions: atomic}, nil
}

// Active is the common caller shape: a nil when is active, a failing guard
// or an evaluation error is inactive.
func Active(when *config.When, ctx Context) bool {
	if when == nil {
		return true
	}
	cond, err := Parse(when)
	if err != nil {
		return false
	}
	ok, err := cond.Evaluate(ctx)
	return err == nil && ok
}

func atomicConditions(when *config.When) []Condition {
	var conds []Condition
	if when.File != "" {
		conds = append(conds, FileCondition{Path: when.File})
	}
	if when.Dir != "" {
		conds = append(conds, DirCondition{Path: when.Dir})
	}
	if when.Var != "" {
		conds = append(conds, VarCondition{Name: when.Var})
	}
	if when.Command != "" {
		conds = append(conds, CommandCondition{Name: when.Command})
	}
	return conds
}

func parseList(whens []config.When, kind string) ([]Condition, error) {
	if len(whens) == 0 {
		return nil, fmt.Errorf("%s: must contain at least one condition", kind)
	}
	conds := make([]Condition, 0, len(whens))
	for i := range whens {
		cond, err := Parse(&whens[i])
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		conds = append(conds, cond)
	}
	return conds, nil
}
