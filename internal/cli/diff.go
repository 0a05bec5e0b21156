package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/treediff/internal/platform"
	"github.com/sdejongh/treediff/pkg/config"
	"github.com/sdejongh/treediff/pkg/diff"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/output"
)

// DiffFlags holds diff command flags
type DiffFlags struct {
	Output     string
	ReportFile string
	Exclude    []string
	Parallel   int
	Content    string
	Bandwidth  string
	NoLabels   bool
	LabelAttr  string
	Progress   bool
	NoColor    bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var diffFlags DiffFlags

// NewDiffCommand creates the diff command
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <original> <new>",
		Short: "Compare two directory trees",
		Long: `Compare the original tree with the new tree.

Paths only in the original are reported as deleted, paths only in the new
tree as added. Paths present in both are compared on type, mode, owner,
group, size, security label, symlink target and file content.`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}

	cmd.Flags().StringVarP(&diffFlags.Output, "output", "o", "", "output format: json, human (default from config: json)")
	cmd.Flags().StringVar(&diffFlags.ReportFile, "report-file", "", "write the report to a file instead of stdout")
	cmd.Flags().StringSliceVar(&diffFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().IntVarP(&diffFlags.Parallel, "parallel", "p", 0, "number of parallel workers (default: 5)")
	cmd.Flags().StringVar(&diffFlags.Content, "content", "", "content comparison: full, streaming, hash (default: full)")
	cmd.Flags().StringVarP(&diffFlags.Bandwidth, "bandwidth", "b", "", "content read limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().BoolVar(&diffFlags.NoLabels, "no-labels", false, "do not compare security labels")
	cmd.Flags().StringVar(&diffFlags.LabelAttr, "label-attr", "", "extended attribute read as the security label")
	cmd.Flags().BoolVar(&diffFlags.Progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().BoolVar(&diffFlags.NoColor, "no-color", false, "disable colored human output")

	// Logging flags
	cmd.Flags().StringVar(&diffFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&diffFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&diffFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	originalRoot, newRoot := args[0], args[1]

	nested, err := validateRoots(originalRoot, newRoot)
	if err != nil {
		return err
	}

	cfg, err := config.Load(globalFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	operation := cfg.Operation(uuid.NewString(), originalRoot, newRoot)

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	if nested {
		logger.Warn(ctx, "One root lies inside the other", logging.Fields{
			"original": originalRoot,
			"new":      newRoot,
		})
	}

	var progress diff.ProgressReporter
	if cfg.Output.Progress && !globalFlags.Quiet && output.IsTerminal(cmd.ErrOrStderr()) {
		progress = output.NewProgressBar(cmd.ErrOrStderr())
	}

	result, err := diff.Run(ctx, operation, logger, progress)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	stdout := cmd.OutOrStdout()
	useColor := cfg.Output.Color && diffFlags.ReportFile == "" && output.IsTerminal(stdout)
	formatter, err := output.NewFormatter(output.Format(cfg.Output.Format), useColor)
	if err != nil {
		return err
	}

	if diffFlags.ReportFile != "" {
		if err := output.WriteReport(result, diffFlags.ReportFile, formatter); err != nil {
			return err
		}
	} else if err := formatter.Write(stdout, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if status := result.Status(); status != models.ExitIdentical {
		return &ExitError{Code: int(status)}
	}
	return nil
}

// validateRoots checks that both roots exist and are directories. It also
// reports whether one root is nested inside the other.
func validateRoots(originalRoot, newRoot string) (bool, error) {
	absolute := make([]string, 0, 2)
	for _, root := range []struct{ name, path string }{
		{"original", originalRoot},
		{"new", newRoot},
	} {
		if err := platform.ValidatePath(root.path); err != nil {
			return false, fmt.Errorf("invalid %s path: %w", root.name, err)
		}

		info, err := os.Stat(root.path)
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%s path does not exist: %s", root.name, root.path)
		} else if err != nil {
			return false, fmt.Errorf("failed to access %s path: %w", root.name, err)
		}
		if !info.IsDir() {
			return false, fmt.Errorf("%s path is not a directory: %s", root.name, root.path)
		}

		abs, err := filepath.Abs(root.path)
		if err != nil {
			return false, fmt.Errorf("failed to resolve %s path: %w", root.name, err)
		}
		absolute = append(absolute, abs)
	}
	return platform.IsNested(absolute[0], absolute[1]), nil
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if diffFlags.Output != "" {
		cfg.Output.Format = diffFlags.Output
	}

	if diffFlags.Content != "" {
		cfg.Compare.Content = models.ContentMethod(diffFlags.Content)
	}

	if diffFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = diffFlags.Parallel
	} else if flags.Changed("parallel") {
		return fmt.Errorf("invalid parallel worker count: %d", diffFlags.Parallel)
	}

	if diffFlags.Bandwidth != "" {
		limit, err := parseBandwidth(diffFlags.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Performance.BandwidthLimit = limit
	}

	if diffFlags.NoLabels {
		cfg.Compare.SecurityLabel.Enabled = false
	}
	if diffFlags.LabelAttr != "" {
		cfg.Compare.SecurityLabel.Attribute = diffFlags.LabelAttr
	}

	if len(diffFlags.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, diffFlags.Exclude...)
	}

	if flags.Changed("progress") {
		cfg.Output.Progress = diffFlags.Progress
	}
	if diffFlags.NoColor {
		cfg.Output.Color = false
	}

	if diffFlags.LogFile != "" {
		cfg.Logging.File = diffFlags.LogFile
	}
	if diffFlags.LogFormat != "" {
		cfg.Logging.Format = diffFlags.LogFormat
	}
	if diffFlags.LogLevel != "" {
		cfg.Logging.Level = diffFlags.LogLevel
	}

	return nil
}

// createLogger returns a file logger when a log file is configured, a debug
// logger on stderr in verbose mode and a null logger otherwise
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Logging.Format)

	if cfg.Logging.File != "" {
		return logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       cfg.Logging.File,
			Format:     format,
			Level:      logging.ParseLevel(cfg.Logging.Level),
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
		})
	}

	if globalFlags.Verbose {
		return logging.NewWriterLogger(stderr, format, logging.DebugLevel), nil
	}

	return logging.NewNullLogger(), nil
}

// parseBandwidth parses a byte rate such as "512K", "10M" or "1G". A bare
// number is bytes per second.
func parseBandwidth(s string) (int64, error) {
	value := strings.ToUpper(strings.TrimSpace(s))
	value = strings.TrimSuffix(value, "/S")
	value = strings.TrimSuffix(value, "B")

	multiplier := int64(1)
	if n := len(value); n > 0 {
		switch value[n-1] {
		case 'K':
			multiplier = 1 << 10
		case 'M':
			multiplier = 1 << 20
		case 'G':
			multiplier = 1 << 30
		}
		if multiplier > 1 {
			value = value[:n-1]
		}
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid bandwidth limit: %q", s)
	}
	return int64(n * float64(multiplier)), nil
}
