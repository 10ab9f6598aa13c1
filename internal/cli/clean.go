package cli

import (
	"fmt"

	"github.com/tabsmith/tabsmith/internal/complete"
	"github.com/tabsmith/tabsmith/internal/logger"
)

// CleanParams contains parameters for the Clean command.
type CleanParams struct {
	IndexCachePath string
	LogLevel       string
}

// Clean removes the command index cache. The next completion rescans $PATH.
func Clean(params CleanParams) error {
	log := logger.NewFromEnv(params.LogLevel, nil)

	ix := complete.NewCommandIndex(params.IndexCachePath, false)
	if err := ix.Clear(); err != nil {
		return fmt.Errorf("failed to clear command index: %w", err)
	}

	log.Info().Str("path", params.IndexCachePath).Msg("command index cleared")
	fmt.Println("✓ Command index cleared")
	return nil
}
