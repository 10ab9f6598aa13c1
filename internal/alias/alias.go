// Package alias holds the active alias table: named command shortcuts that
// the command slot offers as candidates and the REPL expands before running
// a line. Alias values may be Go templates with the sprig function set.
package alias

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/tabsmith/tabsmith/internal/condition"
	"github.com/tabsmith/tabsmith/internal/config"
)

// Alias is one active alias definition.
type Alias struct {
	Name string
	// Command is the replacement command line. When it contains template
	// actions it is rendered with .Args and .NArgs; otherwise the typed
	// arguments are appended.
	Command string
	// CompleteAs names the command whose argument completion the alias
	// borrows. Empty means the first word of Command.
	CompleteAs string
	// NoComplete disables argument completion for the alias.
	NoComplete bool
}

// templateData is what an alias template sees.
type templateData struct {
	Args  []string
	NArgs int
}

// Expand renders the alias into a runnable command line.
func (a Alias) Expand(args []string) (string, error) {
	if !strings.Contains(a.Command, "{{") {
		if len(args) == 0 {
			return a.Command, nil
		}
		return a.Command + " " + strings.Join(args, " "), nil
	}

	tmpl, err := template.New(a.Name).Funcs(sprig.FuncMap()).Parse(a.Command)
	if err != nil {
		return "", fmt.Errorf("alias %s: %w", a.Name, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, templateData{Args: args, NArgs: len(args)}); err != nil {
		return "", fmt.Errorf("alias %s: %w", a.Name, err)
	}
	return b.String(), nil
}

// CompletionTarget returns the command whose completion routine the alias
// uses for its arguments. ok is false when the alias disables completion or
// no target can be derived.
func (a Alias) CompletionTarget() (string, bool) {
	if a.NoComplete {
		return "", false
	}
	if a.CompleteAs != "" {
		return a.CompleteAs, true
	}
	fields := strings.Fields(a.Command)
	if len(fields) == 0 {
		return "", false
	}
	first := fields[0]
	if strings.Contains(first, "{{") {
		return "", false
	}
	return first, true
}

// Store is the alias table. Safe for concurrent use: the REPL mutates it
// while completion reads it.
type Store struct {
	mu      sync.RWMutex
	aliases map[string]Alias
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{aliases: make(map[string]Alias)}
}

// FromConfig builds the store from a merged config, dropping aliases whose
// when guard does not hold.
func FromConfig(cfg *config.Config, ctx condition.Context) *Store {
	s := NewStore()
	if cfg == nil {
		return s
	}
	for name, ac := range cfg.GetAliases() {
		if !condition.Active(ac.When, ctx) {
			continue
		}
		s.Set(Alias{
			Name:       name,
			Command:    ac.Command,
			CompleteAs: ac.CompleteAs,
			NoComplete: ac.NoComplete,
		})
	}
	return s
}

// Set defines or overwrites an alias.
func (s *Store) Set(a Alias) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[a.Name] = a
}

// Unset removes an alias. Unknown names are ignored.
func (s *Store) Unset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.aliases, name)
}

// Get returns the alias for name.
func (s *Store) Get(name string) (Alias, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.aliases[name]
	return a, ok
}

// Names returns the defined alias names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of defined aliases.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.aliases)
}
