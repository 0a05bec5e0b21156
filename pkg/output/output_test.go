package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/treediff/pkg/models"
)

func sampleResult() *models.TreeDiffResult {
	result := models.NewTreeDiffResult()
	result.Deleted = []string{"old.txt"}
	result.Added = []string{"fresh.txt", "sub/new"}
	result.Differences = []models.DifferenceReport{
		{Path: "a.txt", Differences: []models.FieldDiff{
			{Field: models.FieldMode, Original: "644"},
			{Field: models.FieldContent, Original: models.ContentDifferent},
		}},
		{Path: "link", Differences: []models.FieldDiff{}},
		{Path: "swap", Differences: []models.FieldDiff{{Field: models.FieldType, Original: "directory"}}},
	}
	result.Stats = models.Statistics{CommonPaths: 5, IdenticalPaths: 2, ChangedPaths: 3}
	return result
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Write(&buf, sampleResult()))

	assert.JSONEq(t, `{
		"deleted_files": ["old.txt"],
		"added_files": ["fresh.txt", "sub/new"],
		"differences": [
			{"name": "a.txt", "differences": [["mode", "644"], ["content", "different"]]},
			{"name": "link", "differences": []},
			{"name": "swap", "differences": [["type", "directory"]]}
		]
	}`, buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
	assert.Contains(t, buf.String(), "\n  \"added_files\"")
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Write(&buf, models.NewTreeDiffResult()))
	assert.JSONEq(t, `{"deleted_files": [], "added_files": [], "differences": []}`, buf.String())
}

func TestHumanFormatter(t *testing.T) {
	result := sampleResult()
	result.OriginalPath = "/srv/a"
	result.NewPath = "/srv/b"

	var buf bytes.Buffer
	require.NoError(t, NewHumanFormatter(false).Write(&buf, result))

	want := `Original: /srv/a
New:      /srv/b

Deleted (1)
  - old.txt
Added (2)
  + fresh.txt
  + sub/new
Changed (3)
  ~ a.txt
      mode: was 644
      content: different
  ~ link
      symlink target changed
  ~ swap
      type: was directory

Summary: 1 deleted, 2 added, 3 changed, 2 identical (5 common paths)
`
	assert.Equal(t, want, buf.String())
}

func TestHumanFormatter_Identical(t *testing.T) {
	result := models.NewTreeDiffResult()
	result.Stats = models.Statistics{CommonPaths: 4, IdenticalPaths: 4, BytesCompared: 2048}
	result.Duration = 1500 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, NewHumanFormatter(false).Write(&buf, result))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Trees are identical\n"))
	assert.NotContains(t, out, "Deleted")
	assert.Contains(t, out, "Compared 2.0 KiB of content in 1.5s")
}

func TestHumanFormatter_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHumanFormatter(true).Write(&buf, sampleResult()))
	assert.Contains(t, buf.String(), "\x1b[31m- old.txt")
	assert.Contains(t, buf.String(), "\x1b[32m+ fresh.txt")

	buf.Reset()
	require.NoError(t, NewHumanFormatter(false).Write(&buf, sampleResult()))
	assert.NotContains(t, buf.String(), "\x1b[")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFormatters_WriteError(t *testing.T) {
	assert.Error(t, NewJSONFormatter().Write(failingWriter{}, sampleResult()))
	assert.EqualError(t, NewHumanFormatter(false).Write(failingWriter{}, sampleResult()), "disk full")
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter(FormatJSON, false)
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	f, err = NewFormatter("", false)
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	f, err = NewFormatter(FormatHuman, true)
	require.NoError(t, err)
	assert.Equal(t, "human", f.Name())

	_, err = NewFormatter("xml", false)
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")

	require.NoError(t, WriteReport(sampleResult(), path, NewJSONFormatter()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"deleted_files"`)

	// an identical run still produces a report
	require.NoError(t, WriteReport(models.NewTreeDiffResult(), path, NewJSONFormatter()))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted_files": [], "added_files": [], "differences": []}`, string(data))
}

func TestWriteReport_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := WriteReport(sampleResult(), filepath.Join(blocker, "report.json"), NewJSONFormatter())
	assert.Error(t, err)
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	bar.Start(3)
	bar.Increment()
	bar.Increment()
	bar.Increment()
	bar.Finish()
	bar.Finish()

	assert.Equal(t, int64(3), bar.Current())
	assert.Contains(t, buf.String(), "Comparing ")
	assert.Contains(t, buf.String(), "3 / 3")
}

func TestProgressBar_NotStarted(t *testing.T) {
	bar := NewProgressBar(&bytes.Buffer{})
	assert.NotPanics(t, func() {
		bar.Increment()
		bar.Finish()
	})
	assert.Zero(t, bar.Current())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "1023 B", formatBytes(1023))
	assert.Equal(t, "1.0 KiB", formatBytes(1024))
	assert.Equal(t, "1.5 MiB", formatBytes(1536*1024))
}
