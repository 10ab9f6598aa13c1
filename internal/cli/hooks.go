package cli

import (
	"os"

	"github.com/tabsmith/tabsmith/internal/shell"
)

// DetectShell resolves the shell flag value: "auto" (or empty) detects from
// the environment, anything else is returned as-is.
func DetectShell(flag string) string {
	if flag == "" || flag == "auto" {
		return shell.Detect()
	}
	return flag
}

// GenerateHookCode renders the hook script for sh, bound to the running
// binary.
func GenerateHookCode(sh string) (string, error) {
	gen, err := shell.NewGenerator(sh)
	if err != nil {
		return "", err
	}

	binPath, err := os.Executable()
	if err != nil {
		binPath = "tabsmith"
	}
	return gen.Hook(binPath)
}
