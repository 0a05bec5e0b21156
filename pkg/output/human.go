package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/treediff/pkg/models"
)

// HumanFormatter prints a sectioned, optionally colored summary
type HumanFormatter struct {
	bold   *color.Color
	red    *color.Color
	green  *color.Color
	yellow *color.Color
}

// NewHumanFormatter creates a human-readable formatter
func NewHumanFormatter(useColor bool) *HumanFormatter {
	f := &HumanFormatter{
		bold:   color.New(color.Bold),
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{f.bold, f.red, f.green, f.yellow} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Write prints every section that has entries, then a summary
func (f *HumanFormatter) Write(w io.Writer, result *models.TreeDiffResult) error {
	ew := &errWriter{w: w}

	if result.OriginalPath != "" || result.NewPath != "" {
		ew.printf("Original: %s\n", result.OriginalPath)
		ew.printf("New:      %s\n\n", result.NewPath)
	}

	if !result.HasDifferences() {
		ew.printf("%s\n", f.green.Sprint("Trees are identical"))
	}

	if len(result.Deleted) > 0 {
		ew.printf("%s\n", f.bold.Sprintf("Deleted (%d)", len(result.Deleted)))
		for _, p := range result.Deleted {
			ew.printf("  %s\n", f.red.Sprint("- "+p))
		}
	}

	if len(result.Added) > 0 {
		ew.printf("%s\n", f.bold.Sprintf("Added (%d)", len(result.Added)))
		for _, p := range result.Added {
			ew.printf("  %s\n", f.green.Sprint("+ "+p))
		}
	}

	if len(result.Differences) > 0 {
		ew.printf("%s\n", f.bold.Sprintf("Changed (%d)", len(result.Differences)))
		for _, report := range result.Differences {
			ew.printf("  %s\n", f.yellow.Sprint("~ "+report.Path))
			for _, line := range describe(report) {
				ew.printf("      %s\n", line)
			}
		}
	}

	stats := result.Stats
	ew.printf("\nSummary: %d deleted, %d added, %d changed, %d identical (%d common paths)\n",
		len(result.Deleted), len(result.Added), len(result.Differences),
		stats.IdenticalPaths, stats.CommonPaths)
	if result.Duration > 0 {
		ew.printf("Compared %s of content in %s\n",
			formatBytes(stats.BytesCompared), result.Duration.Round(time.Millisecond))
	}

	return ew.err
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return string(FormatHuman)
}

func describe(report models.DifferenceReport) []string {
	if len(report.Differences) == 0 {
		return []string{"symlink target changed"}
	}

	lines := make([]string, 0, len(report.Differences))
	for _, d := range report.Differences {
		switch d.Field {
		case models.FieldType:
			lines = append(lines, "type: was "+d.Original)
		case models.FieldContent:
			lines = append(lines, "content: different")
		default:
			lines = append(lines, fmt.Sprintf("%s: was %s", d.Field, d.Original))
		}
	}
	return lines
}

// errWriter keeps the first write error and drops later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
