package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/tabsmith/tabsmith/internal/config"
	"github.com/tabsmith/tabsmith/internal/repl"
)

// ReplParams contains parameters for the Repl command.
type ReplParams struct {
	IndexCachePath string
	HistoryPath    string
	LogLevel       string
	NoWatch        bool
}

// Repl runs the interactive session. Config files in the hierarchy are
// watched and reloaded live unless NoWatch is set.
func Repl(params ReplParams) error {
	session, err := NewSession(params.IndexCachePath, params.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = session.Index.Save() }()

	if !params.NoWatch {
		watcher, err := config.Watch(session.Dir, session.Loader, func(cfg *config.Config) {
			session.SyncFromConfig(cfg)
			session.Log.Debug().Msg("config reloaded")
		})
		if err != nil {
			session.Log.Warn().Err(err).Msg("config watch unavailable")
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	r := repl.New(repl.Params{
		Engine:      session.Engine,
		Interp:      session.Interp,
		Jobs:        session.Jobs,
		Aliases:     session.Aliases,
		HistoryPath: params.HistoryPath,
		Out:         os.Stdout,
		Logger:      session.Log,
	})

	fmt.Println("tabsmith interactive shell (exit or Ctrl-D to quit)")
	return r.Run(context.Background())
}
