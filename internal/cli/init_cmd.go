package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tabsmith/tabsmith/internal/config"
	"github.com/tabsmith/tabsmith/internal/tserrors"
)

const sampleConfig = `# tabsmith configuration file
# Documentation: https://github.com/tabsmith/tabsmith

# Shell aliases
aliases:
  # Simple string aliases (completion follows the target command)
  # g: git

  # Structured form with completion control
  # tf:
  #   command: terraform
  #   complete_as: terraform
  # deploy:
  #   command: ./scripts/deploy.sh
  #   no_complete: true

# Shell functions, offered in the command slot when complete_functions is on
functions:
  # greet: |
  #   echo "Hello, $1!"

# Variables, expanded during tokenization and exported to commands
vars:
  # PROJECT: myproject

# Per-command file suffix filters for argument completion
suffixes:
  # untex: '\.tex$'

# Completion behavior
completion:
  # ignore_case: false
  # paring: true
  # cycle: true
  # cycle_cutoff: 5
  # show_symbols: fallback   # off, fallback, always
  # complete_functions: false
  # force_execution: false
  # suppress_while_busy: true

# Set to true to ignore parent configs (only use this directory's config)
# local_only: false

# Set to true to ignore the global config
# ignore_global: false
`

// Init creates a sample config file in the current directory or the global
// config location.
func Init(global bool) error {
	var configPath string

	if global {
		globalPath, err := config.GetGlobalConfigPath()
		if err != nil {
			return tserrors.NewConfigurationError("", "failed to get global config path", err)
		}
		configPath = globalPath

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return tserrors.NewConfigurationError(configPath, "failed to create config directory", err)
		}
	} else {
		currentDir, err := os.Getwd()
		if err != nil {
			return tserrors.NewExecutionError("init", "failed to get current directory", err)
		}
		configPath = filepath.Join(currentDir, ".tabsmith.yml")
	}

	if _, err := os.Stat(configPath); err == nil {
		return tserrors.NewAlreadyExistsError(configPath, fmt.Sprintf("config file already exists: %s", configPath))
	}

	if err := os.WriteFile(configPath, []byte(sampleConfig), 0644); err != nil {
		return tserrors.NewConfigurationError(configPath, "failed to create config file", err)
	}

	if global {
		fmt.Printf("Created global config: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit the config file to suit your needs")
		fmt.Println("  2. The global config applies in every directory")
	} else {
		fmt.Printf("Created sample config: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit the config file to suit your needs")
		fmt.Println("  2. Run 'tabsmith setup' to install the shell hook")
	}

	return nil
}
