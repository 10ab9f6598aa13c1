// Package main is the entry point for the tabsmith CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	tscli "github.com/tabsmith/tabsmith/internal/cli"
	"github.com/tabsmith/tabsmith/internal/setup"
	"github.com/tabsmith/tabsmith/internal/trace"
	"github.com/tabsmith/tabsmith/pkg/version"
)

func xdgPath(envVar, fallback string, parts ...string) string {
	base := os.Getenv(envVar)
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base}, parts...)...)
}

func main() {
	defer trace.Init()()

	indexCachePath := xdgPath("XDG_CACHE_HOME", ".cache", "tabsmith", "index.json")
	historyPath := xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), "tabsmith", "history")

	app := &cli.Command{
		Name:                  "tabsmith",
		Usage:                 "Argument-position shell completion engine",
		Version:               version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("TABSMITH_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "complete",
				Usage: "Compute completion candidates for a command line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "line",
						Usage:    "Command line being completed",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "point",
						Value: -1,
						Usage: "Cursor offset in the line (defaults to line end)",
					},
					&cli.StringFlag{
						Name:  "shell",
						Value: "auto",
						Usage: "Shell the request comes from (bash, zsh, auto)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					err := tscli.Complete(tscli.CompleteParams{
						Line:           cmd.String("line"),
						Point:          int(cmd.Int("point")),
						IndexCachePath: indexCachePath,
						LogLevel:       cmd.String("log-level"),
					})
					if err == tscli.ErrInsertTab {
						// Non-zero exit tells the hook to fall back to a
						// literal tab. No error text on stderr.
						os.Exit(1)
					}
					return err
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive shell with tabsmith completion",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-watch",
						Usage: "Disable live config reloading",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Repl(tscli.ReplParams{
						IndexCachePath: indexCachePath,
						HistoryPath:    historyPath,
						LogLevel:       cmd.String("log-level"),
						NoWatch:        cmd.Bool("no-watch"),
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show current tabsmith configuration status",
				Action: func(_ context.Context, _ *cli.Command) error {
					return tscli.Status(tscli.StatusParams{
						IndexCachePath: indexCachePath,
					})
				},
			},
			{
				Name:  "aliases",
				Usage: "List aliases active in the current directory",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Aliases(tscli.AliasesParams{
						IndexCachePath: indexCachePath,
						LogLevel:       cmd.String("log-level"),
					})
				},
			},
			{
				Name:  "init",
				Usage: "Create a sample config file in the current folder or global config",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "global",
						Aliases: []string{"g"},
						Usage:   "Create the global config file instead of a local one",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Init(cmd.Bool("global"))
				},
			},
			{
				Name:  "edit",
				Usage: "Edit or create a config file in the current directory or global config",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "global",
						Aliases: []string{"g"},
						Usage:   "Edit the global config file instead of a local one",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Edit(cmd.Bool("global"))
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a tabsmith configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					configPath := ""
					if cmd.Args().Len() > 0 {
						configPath = cmd.Args().Get(0)
					}
					return tscli.Validate(configPath)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().Get(0)
					}
					return tscli.Schema(outputPath)
				},
			},
			{
				Name:  "hook",
				Usage: "Print shell hook code for manual installation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "shell",
						Value:   "auto",
						Usage:   "Shell type: bash, zsh, or auto",
						Sources: cli.EnvVars("TABSMITH_SHELL"),
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					sh := tscli.DetectShell(cmd.String("shell"))
					hookCode, err := tscli.GenerateHookCode(sh)
					if err != nil {
						return err
					}
					fmt.Println(hookCode)
					return nil
				},
			},
			{
				Name:      "setup",
				Usage:     "Install or uninstall the shell hook",
				ArgsUsage: "[shell]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "shell",
						Value:   "auto",
						Usage:   "Shell type: bash, zsh, or auto",
						Sources: cli.EnvVars("TABSMITH_SHELL"),
					},
					&cli.BoolFlag{
						Name:    "uninstall",
						Aliases: []string{"u"},
						Usage:   "Uninstall the shell hook instead of installing it",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					shellFlag := cmd.String("shell")
					if cmd.Args().Len() > 0 {
						shellFlag = cmd.Args().Get(0)
					}
					sh := tscli.DetectShell(shellFlag)

					var result *setup.Result
					var err error
					if cmd.Bool("uninstall") {
						result, err = setup.UninstallHook(sh)
					} else {
						result, err = setup.InstallHook(sh)
					}
					if err != nil {
						return err
					}

					fmt.Println(result.Message)
					return nil
				},
			},
			{
				Name:  "clean",
				Usage: "Clear the command index cache",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tscli.Clean(tscli.CleanParams{
						IndexCachePath: indexCachePath,
						LogLevel:       cmd.String("log-level"),
					})
				},
			},
			{
				Name:      "parse",
				Usage:     "Show how a command line tokenizes into argument slots",
				ArgsUsage: "<line>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "point",
						Value: -1,
						Usage: "Cursor offset in the line (defaults to line end)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("line argument required")
					}
					return tscli.Parse(tscli.ParseParams{
						Line:  cmd.Args().Get(0),
						Point: int(cmd.Int("point")),
					})
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
