// Package cli implements the tabsmith commands. Each command is a function
// taking a Params struct so it can be tested without the flag layer.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tabsmith/tabsmith/internal/alias"
	"github.com/tabsmith/tabsmith/internal/complete"
	"github.com/tabsmith/tabsmith/internal/condition"
	"github.com/tabsmith/tabsmith/internal/config"
	"github.com/tabsmith/tabsmith/internal/interp"
	"github.com/tabsmith/tabsmith/internal/jobs"
	"github.com/tabsmith/tabsmith/internal/logger"
)

// Session bundles the components a command works with: the merged config for
// the current directory and the completion engine built from it.
type Session struct {
	Dir     string
	Config  *config.Config
	Loader  *config.Loader
	Options config.Options
	Aliases *alias.Store
	Interp  *interp.Interp
	Jobs    *jobs.Table
	Index   *complete.CommandIndex
	Engine  *complete.Engine
	Log     *logger.Logger
}

// NewSession loads the config hierarchy for the working directory and wires
// the completion engine. Config trouble degrades to defaults; completion
// must keep working in a directory with a broken config.
func NewSession(indexCachePath, logLevel string) (*Session, error) {
	log := logger.NewFromEnv(logLevel, nil)

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	loader := config.New()
	cfg, _, err := loader.LoadHierarchy(dir)
	if err != nil {
		log.Warn().Err(err).Msg("config load failed, using defaults")
		cfg = nil
	}

	opts := config.DefaultOptions()
	if cfg != nil {
		opts = cfg.Completion
	}

	in := interp.New()
	store := alias.NewStore()
	if cfg != nil {
		for name, value := range cfg.Vars {
			in.SetVar(name, value)
		}
		for name, body := range cfg.Functions {
			in.DefineFunction(name, body)
		}
		store = alias.FromConfig(cfg, conditionContext(dir))
	}

	registry := complete.NewRegistry()
	complete.RegisterDefaults(registry)
	if cfg != nil {
		for command, pattern := range cfg.Suffixes {
			if err := registry.AddSuffix(command, pattern); err != nil {
				log.Warn().Str("command", command).Err(err).Msg("bad suffix pattern")
			}
		}
	}

	index := complete.NewCommandIndex(indexCachePath, opts.ForceExecution)
	if cfg != nil && cfg.SearchPath != "" {
		index.SetSearchPath(filepath.SplitList(cfg.SearchPath))
	}

	jobTable := jobs.NewTable()

	engine := complete.NewEngine(complete.Params{
		Options:   opts,
		Registry:  registry,
		Index:     index,
		Aliases:   store,
		Symbols:   in,
		Jobs:      jobTable,
		Evaluator: in,
		Dir:       dir,
		Logger:    log,
	})

	return &Session{
		Dir:     dir,
		Config:  cfg,
		Loader:  loader,
		Options: opts,
		Aliases: store,
		Interp:  in,
		Jobs:    jobTable,
		Index:   index,
		Engine:  engine,
		Log:     log,
	}, nil
}

// SyncFromConfig reapplies a freshly loaded config to the session's stores.
// Used by the config watcher.
func (s *Session) SyncFromConfig(cfg *config.Config) {
	s.Config = cfg

	fresh := alias.FromConfig(cfg, conditionContext(s.Dir))
	for _, name := range s.Aliases.Names() {
		if _, ok := fresh.Get(name); !ok {
			s.Aliases.Unset(name)
		}
	}
	for _, name := range fresh.Names() {
		if a, ok := fresh.Get(name); ok {
			s.Aliases.Set(a)
		}
	}

	if cfg != nil {
		for name, value := range cfg.Vars {
			s.Interp.SetVar(name, value)
		}
		for name, body := range cfg.Functions {
			s.Interp.DefineFunction(name, body)
		}
	}
}

func conditionContext(dir string) condition.Context {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if eq := strings.Index(kv, "="); eq > 0 {
			env[kv[:eq]] = kv[eq+1:]
		}
	}
	return condition.Context{Env: env, WorkingDir: dir}
}
