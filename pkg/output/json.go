package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sdejongh/treediff/pkg/models"
)

// JSONFormatter writes the report document:
//
//	{"deleted_files": [...], "added_files": [...],
//	 "differences": [{"name": path, "differences": [[field, original], ...]}]}
type JSONFormatter struct {
	indent string
}

// NewJSONFormatter creates a formatter indenting with two spaces
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{indent: "  "}
}

// Write encodes result followed by a newline
func (f *JSONFormatter) Write(w io.Writer, result *models.TreeDiffResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", f.indent)
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return string(FormatJSON)
}
