// Package cli implements the treediff command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries a process exit code out of a command without printing
// anything further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 2
}

// NewRootCommand builds the treediff command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treediff",
		Short: "Compare two directory trees",
		Long: `treediff compares an original directory tree with a new one and reports
deleted and added paths along with the metadata and content differences of
every path present in both.

Exit status is 0 when the trees are identical, 1 when they differ and 2 when
the comparison could not complete.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewDiffCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
