package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/treediff/pkg/models"
)

// WriteReport renders result into the file at path, replacing it. Missing
// parent directories are created.
func WriteReport(result *models.TreeDiffResult, path string, formatter Formatter) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := formatter.Write(file, result); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}
