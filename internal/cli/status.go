package cli

import (
	"fmt"

	"github.com/tabsmith/tabsmith/internal/status"
)

// StatusParams contains parameters for the Status command.
type StatusParams struct {
	IndexCachePath string
}

// Status displays the current tabsmith configuration status.
func Status(params StatusParams) error {
	data, err := status.CollectAll(params.IndexCachePath)
	if err != nil {
		return fmt.Errorf("failed to collect status data: %w", err)
	}

	fmt.Println(status.Render(data))
	return nil
}
