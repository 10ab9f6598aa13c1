package complete

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ExplicitMarker prefixes a command name to force path-executable dispatch,
// bypassing aliases and functions.
const ExplicitMarker = '*'

//go:embed suffixes.yml
var suffixesYAML []byte

// ArgContext carries everything a handler needs for one argument slot.
type ArgContext struct {
	// Engine gives handlers access to the candidate generators.
	Engine *Engine
	// Command is the canonical command name.
	Command string
	// Args are the parsed arguments so far; Args[0] is the command as
	// typed.
	Args []string
	// Seed is the partial argument under the cursor.
	Seed string
	// Index is the slot being completed; the command is slot 0.
	Index int
	// Dir is the working directory.
	Dir string
}

// Handler computes the candidate set for one argument slot of a command.
type Handler interface {
	Complete(ctx ArgContext) ([]Candidate, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx ArgContext) ([]Candidate, error)

// Complete implements Handler.
func (f HandlerFunc) Complete(ctx ArgContext) ([]Candidate, error) {
	return f(ctx)
}

// Registry maps canonical command names to argument-completion handlers and
// file-suffix filters. Providers register handlers at startup; nothing is
// looked up by naming convention.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	suffixes map[string]*regexp.Regexp
}

// NewRegistry creates a registry preloaded with the embedded suffix table.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		suffixes: make(map[string]*regexp.Regexp),
	}

	var table map[string]string
	if err := yaml.Unmarshal(suffixesYAML, &table); err != nil {
		panic("complete: embedded suffix table is invalid: " + err.Error())
	}
	for command, pattern := range table {
		re, err := regexp.Compile(pattern)
		if err != nil {
			panic(fmt.Sprintf("complete: embedded suffix pattern for %s is invalid: %v", command, err))
		}
		r.suffixes[command] = re
	}
	return r
}

// Register binds a handler to a canonical command name, replacing any
// previous binding.
func (r *Registry) Register(command string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[command] = h
}

// Handler returns the handler registered for command.
func (r *Registry) Handler(command string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[command]
	return h, ok
}

// Commands returns the registered command names, sorted.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuffixFilter returns the file-suffix filter for command, or nil when the
// command has no entry.
func (r *Registry) SuffixFilter(command string) *regexp.Regexp {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suffixes[command]
}

// AddSuffix installs or overrides a suffix filter, typically from config.
func (r *Registry) AddSuffix(command, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("suffix pattern for %s: %w", command, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suffixes[command] = re
	return nil
}

// SuffixCount returns the number of suffix rules.
func (r *Registry) SuffixCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.suffixes)
}

// CanonicalCommand reduces the first argument to the name used for handler
// and suffix lookup: the explicit-dispatch marker is stripped, then any
// directory component, then a trailing extension when ignoreExt is set.
// explicit reports whether the marker was present.
func CanonicalCommand(arg0 string, ignoreExt bool) (name string, explicit bool) {
	name = arg0
	if strings.HasPrefix(name, string(ExplicitMarker)) {
		name = name[1:]
		explicit = true
	}
	name = filepath.Base(name)
	if ignoreExt {
		if ext := filepath.Ext(name); ext != "" && ext != name {
			name = strings.TrimSuffix(name, ext)
		}
	}
	return name, explicit
}

// ignoreExtensions interprets the ignore_file_extensions option: commands
// carry meaningful extensions only on Windows unless forced.
func ignoreExtensions(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return runtime.GOOS == "windows"
	}
}
