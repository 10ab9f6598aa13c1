package cli

import (
	"fmt"
	"os"

	"github.com/tabsmith/tabsmith/internal/config"
)

// Schema prints the configuration JSON Schema, or writes it to outputPath
// when given.
func Schema(outputPath string) error {
	schema := config.GetSchemaJSON()

	if outputPath == "" {
		fmt.Println(schema)
		return nil
	}

	if err := os.WriteFile(outputPath, []byte(schema), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	fmt.Printf("Schema written to %s\n", outputPath)
	return nil
}
