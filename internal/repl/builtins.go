package repl

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tabsmith/tabsmith/internal/alias"
)

// builtin dispatches REPL builtins. It reports whether the line was handled
// and whether the session should end.
func (r *REPL) builtin(line string) (handled, quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, false, nil
	}

	switch fields[0] {
	case "exit", "quit":
		return true, true, nil
	case "cd":
		return true, false, r.builtinCd(fields[1:])
	case "alias":
		return true, false, r.builtinAlias(fields[1:])
	case "unalias":
		return true, false, r.builtinUnalias(fields[1:])
	case "jobs":
		r.builtinJobs()
		return true, false, nil
	case "history":
		r.builtinHistory()
		return true, false, nil
	case "vars":
		r.builtinVars()
		return true, false, nil
	case "set":
		return true, false, r.builtinSet(fields[1:])
	case "unset":
		return true, false, r.builtinUnset(fields[1:])
	}
	return false, false, nil
}

func (r *REPL) builtinCd(args []string) error {
	var dir string
	switch len(args) {
	case 0:
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = home
	case 1:
		dir = args[0]
	default:
		return fmt.Errorf("cd: too many arguments")
	}
	return os.Chdir(dir)
}

func (r *REPL) builtinAlias(args []string) error {
	if len(args) == 0 {
		for _, name := range r.aliases.Names() {
			if a, ok := r.aliases.Get(name); ok {
				fmt.Fprintf(r.out, "alias %s='%s'\n", name, a.Command)
			}
		}
		return nil
	}

	// alias name=command or alias name command...
	first := args[0]
	if eq := strings.Index(first, "="); eq > 0 {
		name := first[:eq]
		command := strings.TrimSpace(strings.Join(append([]string{first[eq+1:]}, args[1:]...), " "))
		command = strings.Trim(command, `'"`)
		r.aliases.Set(alias.Alias{Name: name, Command: command})
		return nil
	}
	if len(args) >= 2 {
		r.aliases.Set(alias.Alias{Name: first, Command: strings.Join(args[1:], " ")})
		return nil
	}

	a, ok := r.aliases.Get(first)
	if !ok {
		return fmt.Errorf("alias: %s: not found", first)
	}
	fmt.Fprintf(r.out, "alias %s='%s'\n", a.Name, a.Command)
	return nil
}

func (r *REPL) builtinUnalias(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("unalias: name required")
	}
	for _, name := range args {
		r.aliases.Unset(name)
	}
	return nil
}

func (r *REPL) builtinJobs() {
	for _, job := range r.jobs.Jobs() {
		fmt.Fprintf(r.out, "[%d] %s  %s\n", job.ID, job.State, job.Command)
	}
}

func (r *REPL) builtinHistory() {
	for i, line := range r.history {
		fmt.Fprintf(r.out, "%5d  %s\n", i+1, line)
	}
}

func (r *REPL) builtinVars() {
	names := r.interp.VarNames()
	sort.Strings(names)
	for _, name := range names {
		if value, ok := r.interp.Var(name); ok {
			fmt.Fprintf(r.out, "%s=%s\n", name, value)
		}
	}
}

func (r *REPL) builtinSet(args []string) error {
	if len(args) == 0 {
		r.builtinVars()
		return nil
	}
	for _, arg := range args {
		eq := strings.Index(arg, "=")
		if eq <= 0 {
			return fmt.Errorf("set: expected NAME=VALUE, got %q", arg)
		}
		r.interp.SetVar(arg[:eq], arg[eq+1:])
	}
	return nil
}

func (r *REPL) builtinUnset(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("unset: name required")
	}
	for _, name := range args {
		r.interp.UnsetVar(name)
	}
	return nil
}
