// Package setup installs the tabsmith hook into shell RC files. The hook is
// a marker-delimited block so install and uninstall are idempotent and leave
// the rest of the file untouched.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tabsmith/tabsmith/internal/shell"
)

const (
	// HookMarkerStart opens the tabsmith block in RC files.
	HookMarkerStart = "# tabsmith shell hook - START"
	// HookMarkerEnd closes the tabsmith block in RC files.
	HookMarkerEnd = "# tabsmith shell hook - END"
)

// Result reports what a setup operation did.
type Result struct {
	RCFile  string
	Updated bool
	Message string
}

// GetRCFilePath returns the RC file for the given shell.
func GetRCFilePath(sh string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch sh {
	case shell.Bash:
		return filepath.Join(home, ".bashrc"), nil
	case shell.Zsh:
		return filepath.Join(home, ".zshrc"), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (use bash or zsh)", sh)
	}
}

// hookBlock builds the marker-delimited block for sh.
func hookBlock(sh string) string {
	return HookMarkerStart + "\n" +
		fmt.Sprintf(`eval "$(tabsmith hook %s)"`, sh) + "\n" +
		HookMarkerEnd
}

// InstallHook installs or refreshes the hook block in the shell's RC file.
func InstallHook(sh string) (*Result, error) {
	rcFile, err := GetRCFilePath(sh)
	if err != nil {
		return nil, err
	}

	block := hookBlock(sh)
	data, readErr := os.ReadFile(rcFile)
	content := string(data)

	if readErr == nil && containsMarkers(content, HookMarkerStart, HookMarkerEnd) {
		if currentBlock(content) == block {
			return &Result{
				RCFile:  rcFile,
				Updated: false,
				Message: fmt.Sprintf("✓ Hook already installed in %s", rcFile),
			}, nil
		}
		content = removeMarkedSection(content, HookMarkerStart, HookMarkerEnd)
	}

	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += block + "\n"

	if err := atomicWrite(rcFile, []byte(content)); err != nil {
		return nil, fmt.Errorf("failed to install hook: %w", err)
	}

	return &Result{
		RCFile:  rcFile,
		Updated: true,
		Message: fmt.Sprintf("✓ Hook installed in %s\nRestart your shell or run: source %s", rcFile, rcFile),
	}, nil
}

// IsHookInstalled reports whether the hook block is present in the shell's
// RC file.
func IsHookInstalled(sh string) (bool, error) {
	rcFile, err := GetRCFilePath(sh)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(rcFile)
	if err != nil {
		return false, nil
	}
	return containsMarkers(string(data), HookMarkerStart, HookMarkerEnd), nil
}

// NeedsUpdate reports whether an installed hook block differs from the
// current one.
func NeedsUpdate(sh string) (bool, error) {
	rcFile, err := GetRCFilePath(sh)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(rcFile)
	if err != nil {
		return false, nil
	}
	content := string(data)
	if !containsMarkers(content, HookMarkerStart, HookMarkerEnd) {
		return false, nil
	}
	return currentBlock(content) != hookBlock(sh), nil
}

// UninstallHook removes the hook block from the shell's RC file.
func UninstallHook(sh string) (*Result, error) {
	rcFile, err := GetRCFilePath(sh)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(rcFile)
	if err != nil || !containsMarkers(string(data), HookMarkerStart, HookMarkerEnd) {
		return &Result{
			RCFile:  rcFile,
			Updated: false,
			Message: "✓ tabsmith is not installed",
		}, nil
	}

	newContent := removeMarkedSection(string(data), HookMarkerStart, HookMarkerEnd)
	if err := atomicWrite(rcFile, []byte(newContent)); err != nil {
		return nil, fmt.Errorf("failed to uninstall: %w", err)
	}

	return &Result{
		RCFile:  rcFile,
		Updated: true,
		Message: fmt.Sprintf("✓ Removed hook from %s", rcFile),
	}, nil
}

// currentBlock extracts the installed block, markers included.
func currentBlock(content string) string {
	startIdx := strings.Index(content, HookMarkerStart)
	endIdx := strings.Index(content, HookMarkerEnd)
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return content[startIdx : endIdx+len(HookMarkerEnd)]
}

// containsMarkers checks if content contains both markers.
func containsMarkers(content, startMarker, endMarker string) bool {
	return strings.Contains(content, startMarker) && strings.Contains(content, endMarker)
}

// removeMarkedSection removes the section between the markers, markers
// included.
func removeMarkedSection(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	endIdx := strings.Index(content, endMarker)

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return content
	}

	before := content[:startIdx]
	after := content[endIdx+len(endMarker):]

	before = strings.TrimRight(before, "\n")
	after = strings.TrimLeft(after, "\n")

	if len(before) > 0 && len(after) > 0 {
		return before + "\n" + after
	}
	if len(before) > 0 {
		return before + "\n"
	}
	return after
}

// atomicWrite writes data through a temp file and rename.
func atomicWrite(filename string, data []byte) error {
	const perm = 0644
	dir := filepath.Dir(filename)
	tmpFile, err := os.CreateTemp(dir, ".tabsmith-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}
