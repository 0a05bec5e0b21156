package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/treediff/pkg/config"
)

// execute runs the command tree with args and an isolated HOME
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

type jsonReport struct {
	Deleted     []string            `json:"deleted_files"`
	Added       []string            `json:"added_files"`
	Differences []jsonDifferenceRow `json:"differences"`
}

type jsonDifferenceRow struct {
	Name        string      `json:"name"`
	Differences [][2]string `json:"differences"`
}

func TestDiff_Identical(t *testing.T) {
	original := writeTree(t, map[string]string{"a.txt": "hello", "sub/b.txt": "world"})
	updated := writeTree(t, map[string]string{"a.txt": "hello", "sub/b.txt": "world"})

	stdout, _, err := execute(t, "diff", original, updated, "--no-labels")
	require.NoError(t, err)
	assert.Equal(t, 0, ExitCode(err))
	assert.JSONEq(t, `{"deleted_files": [], "added_files": [], "differences": []}`, stdout)
}

func TestDiff_Differences(t *testing.T) {
	original := writeTree(t, map[string]string{"keep.txt": "same", "edit.txt": "before", "gone.txt": "x"})
	updated := writeTree(t, map[string]string{"keep.txt": "same", "edit.txt": "after!", "new.txt": "y"})

	stdout, _, err := execute(t, "diff", original, updated, "--no-labels")
	assert.Equal(t, 1, ExitCode(err))

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, []string{"gone.txt"}, report.Deleted)
	assert.Equal(t, []string{"new.txt"}, report.Added)
	require.Len(t, report.Differences, 1)
	assert.Equal(t, "edit.txt", report.Differences[0].Name)
	assert.Equal(t, [][2]string{{"content", "different"}}, report.Differences[0].Differences)
}

func TestDiff_HumanOutput(t *testing.T) {
	original := writeTree(t, map[string]string{"gone.txt": "x"})
	updated := writeTree(t, map[string]string{"new.txt": "y"})

	stdout, _, err := execute(t, "diff", original, updated, "--no-labels", "-o", "human")
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, stdout, "Deleted (1)")
	assert.Contains(t, stdout, "  - gone.txt")
	assert.Contains(t, stdout, "  + new.txt")
	assert.NotContains(t, stdout, "\x1b[", "stdout is not a terminal")
}

func TestDiff_ExcludeAndContentMethod(t *testing.T) {
	original := writeTree(t, map[string]string{"a.txt": "one", "cache/x.tmp": "1"})
	updated := writeTree(t, map[string]string{"a.txt": "one", "cache/x.tmp": "2", "b.tmp": "3"})

	for _, method := range []string{"full", "streaming", "hash"} {
		t.Run(method, func(t *testing.T) {
			stdout, _, err := execute(t, "diff", original, updated,
				"--no-labels", "--content", method, "--exclude", "*.tmp", "-p", "2")
			require.NoError(t, err)
			assert.JSONEq(t, `{"deleted_files": [], "added_files": [], "differences": []}`, stdout)
		})
	}
}

func TestDiff_ReportFile(t *testing.T) {
	original := writeTree(t, map[string]string{"a.txt": "1"})
	updated := writeTree(t, map[string]string{})
	reportPath := filepath.Join(t.TempDir(), "out", "report.json")

	stdout, _, err := execute(t, "diff", original, updated, "--no-labels", "--report-file", reportPath)
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, stdout)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted_files": ["a.txt"], "added_files": [], "differences": []}`, string(data))
}

func TestDiff_LogFile(t *testing.T) {
	original := writeTree(t, map[string]string{"a.txt": "1"})
	updated := writeTree(t, map[string]string{"a.txt": "1"})
	logPath := filepath.Join(t.TempDir(), "logs", "treediff.log")

	_, _, err := execute(t, "diff", original, updated, "--no-labels",
		"--log-file", logPath, "--log-format", "json", "--log-level", "debug")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tree comparison completed")
	assert.Contains(t, string(data), `"run_id"`)
}

func TestDiff_Verbose(t *testing.T) {
	original := writeTree(t, map[string]string{"a.txt": "1"})
	updated := writeTree(t, map[string]string{"a.txt": "2"})

	_, stderr, err := execute(t, "diff", original, updated, "--no-labels", "-v")
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, stderr, "[DEBUG] Path differs")
	assert.Contains(t, stderr, "path=a.txt")
}

func TestDiff_NestedRoots(t *testing.T) {
	original := writeTree(t, map[string]string{"a.txt": "1", "copy/a.txt": "1"})

	stdout, stderr, err := execute(t, "diff", original, filepath.Join(original, "copy"), "--no-labels", "-v")
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, stderr, "[WARN] One root lies inside the other")

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, []string{"copy", "copy/a.txt"}, report.Deleted)
}

func TestDiff_Errors(t *testing.T) {
	dir := writeTree(t, map[string]string{"file": "x"})

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"empty original", []string{"diff", "", dir}, "invalid original path"},
		{"missing original", []string{"diff", filepath.Join(dir, "nope"), dir}, "original path does not exist"},
		{"new is a file", []string{"diff", dir, filepath.Join(dir, "file")}, "new path is not a directory"},
		{"bad content method", []string{"diff", dir, dir, "--content", "md5"}, "compare.content"},
		{"bad output", []string{"diff", dir, dir, "-o", "xml"}, "output.format"},
		{"bad parallel", []string{"diff", dir, dir, "-p", "0"}, "invalid parallel worker count"},
		{"bad bandwidth", []string{"diff", dir, dir, "-b", "fast"}, "invalid bandwidth limit"},
		{"wrong arg count", []string{"diff", dir}, "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, 2, ExitCode(err))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestDiff_ConfigFile(t *testing.T) {
	original := writeTree(t, map[string]string{"a.txt": "1"})
	updated := writeTree(t, map[string]string{"b.txt": "1"})

	cfg := config.Default()
	cfg.Compare.SecurityLabel.Enabled = false
	cfg.Output.Format = "human"
	cfgPath := filepath.Join(t.TempDir(), "treediff.yaml")
	require.NoError(t, config.SaveToFile(cfg, cfgPath))

	stdout, _, err := execute(t, "--config", cfgPath, "diff", original, updated)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, stdout, "Added (1)")

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "diff", original, updated)
	assert.ErrorContains(t, err, "failed to load config")
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "conf", "treediff.yaml")

	stdout, _, err := execute(t, "--config", cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", stdout)

	stdout, _, err = execute(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, cfgPath)

	_, _, err = execute(t, "--config", cfgPath, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "--config", cfgPath, "config", "init", "--force")
	require.NoError(t, err)

	stdout, _, err = execute(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "content: full")
	assert.Contains(t, stdout, "max_workers: 5")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "treediff dev")

	stdout, _, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(&ExitError{Code: 1}))
	assert.Equal(t, 2, ExitCode(errors.New("boom")))
}

func TestParseBandwidth(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1000", 1000},
		{"512K", 512 << 10},
		{"10M", 10 << 20},
		{"10MB", 10 << 20},
		{"1g", 1 << 30},
		{"1.5M", 3 << 19},
		{"2M/s", 2 << 20},
	}
	for _, tt := range tests {
		got, err := parseBandwidth(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "M", "fast", "-1M"} {
		_, err := parseBandwidth(bad)
		assert.Error(t, err, bad)
	}
}
