// Package output renders a models.TreeDiffResult for people and for tools.
package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/treediff/pkg/models"
)

// Format names an output format
type Format string

const (
	FormatJSON  Format = "json"
	FormatHuman Format = "human"
)

// Formatter writes a finished comparison result
type Formatter interface {
	// Write renders result to w
	Write(w io.Writer, result *models.TreeDiffResult) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for format. useColor only affects the
// human format.
func NewFormatter(format Format, useColor bool) (Formatter, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONFormatter(), nil
	case FormatHuman:
		return NewHumanFormatter(useColor), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected json or human)", format)
	}
}
