package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ValidationError describes one problem found in a config file.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult collects the outcome of validating one file.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Validate parses a config file and checks it for semantic problems the
// JSON Schema cannot express: name conflicts, empty definitions, suffix
// patterns that do not compile.
func Validate(path string) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true, Errors: []ValidationError{}}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	loader := New()
	cfg, err := loader.Load(path)
	if err != nil {
		result.addError("syntax", fmt.Sprintf("Failed to parse config: %v", err))
		return result, nil
	}

	for name := range cfg.Aliases {
		if _, exists := cfg.Functions[name]; exists {
			result.addError("aliases/"+name,
				fmt.Sprintf("Name conflict: %q is defined as both an alias and a function", name))
		}
	}

	for name, ac := range cfg.GetAliases() {
		if strings.TrimSpace(ac.Command) == "" {
			result.addError("aliases/"+name, "Alias command is empty")
		}
		if ac.CompleteAs != "" && ac.NoComplete {
			result.addError("aliases/"+name, "Alias both inherits and disables completion")
		}
	}

	for name, body := range cfg.Functions {
		if strings.TrimSpace(body) == "" {
			result.addError("functions/"+name, "Function body is empty")
		}
	}

	for command, pattern := range cfg.Suffixes {
		if _, err := regexp.Compile(pattern); err != nil {
			result.addError("suffixes/"+command,
				fmt.Sprintf("Suffix pattern does not compile: %v", err))
		}
	}

	if s := cfg.Completion.ShowSymbols; s != "" {
		switch s {
		case ShowSymbolsOff, ShowSymbolsFallback, ShowSymbolsAlways:
		default:
			result.addError("completion/show_symbols",
				fmt.Sprintf("Must be one of %q, %q, %q", ShowSymbolsOff, ShowSymbolsFallback, ShowSymbolsAlways))
		}
	}

	if cfg.Completion.CycleCutoff < 0 {
		result.addError("completion/cycle_cutoff", "Must be zero or positive")
	}

	return result, nil
}
