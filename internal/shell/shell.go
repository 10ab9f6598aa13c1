// Package shell generates the per-shell hook scripts that route tab
// completion through the tabsmith binary.
package shell

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const (
	// Bash is the bash shell identifier.
	Bash = "bash"
	// Zsh is the zsh shell identifier.
	Zsh = "zsh"
)

// Supported reports whether shell has a hook generator.
func Supported(shell string) bool {
	return shell == Bash || shell == Zsh
}

// Detect guesses the current shell from $SHELL, defaulting to bash.
func Detect() string {
	switch filepath.Base(os.Getenv("SHELL")) {
	case Zsh:
		return Zsh
	default:
		return Bash
	}
}

// Generator produces the hook script for one shell.
type Generator interface {
	// Name returns the shell name.
	Name() string
	// Hook renders the hook script with binPath as the tabsmith binary.
	Hook(binPath string) (string, error)
}

// NewGenerator returns the generator for shell.
func NewGenerator(shell string) (Generator, error) {
	switch shell {
	case Bash:
		return &bashGenerator{}, nil
	case Zsh:
		return &zshGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported shell: %s (use bash or zsh)", shell)
	}
}

type hookData struct {
	BinPath string
}

func render(name, src, binPath string) (string, error) {
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse %s hook template: %w", name, err)
	}
	if binPath == "" {
		binPath = "tabsmith"
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, hookData{BinPath: binPath}); err != nil {
		return "", fmt.Errorf("render %s hook: %w", name, err)
	}
	return buf.String(), nil
}

type bashGenerator struct{}

func (*bashGenerator) Name() string { return Bash }

func (*bashGenerator) Hook(binPath string) (string, error) {
	return render(Bash, bashTemplate, binPath)
}

type zshGenerator struct{}

func (*zshGenerator) Name() string { return Zsh }

func (*zshGenerator) Hook(binPath string) (string, error) {
	return render(Zsh, zshTemplate, binPath)
}
