package platform

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/treediff/pkg/models"
)

func TestRelativePath(t *testing.T) {
	root := filepath.FromSlash("/srv/tree")

	tests := []struct {
		name    string
		full    string
		want    string
		wantErr bool
	}{
		{"Child", "/srv/tree/a.txt", "a.txt", false},
		{"Nested", "/srv/tree/a/b/c", "a/b/c", false},
		{"Uncleaned", "/srv/tree/a/./b/../c", "a/c", false},
		{"RootItself", "/srv/tree", "", true},
		{"Outside", "/srv/other/a", "", true},
		{"Parent", "/srv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(root, filepath.FromSlash(tt.full))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrPathNormalization)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinRelative(t *testing.T) {
	assert.Equal(t, "a", JoinRelative("", "a"))
	assert.Equal(t, "a/b", JoinRelative("a", "b"))
}

func TestComparePaths(t *testing.T) {
	paths := []string{"a-b", "b", "a/b", "a", "a/a", "A"}
	sort.Slice(paths, func(i, j int) bool { return ComparePaths(paths[i], paths[j]) < 0 })
	assert.Equal(t, []string{"A", "a", "a/a", "a/b", "a-b", "b"}, paths)
	assert.Equal(t, 0, ComparePaths("x/y", "x/y"))
}

func TestValidatePath(t *testing.T) {
	assert.Error(t, ValidatePath(""))
	assert.Error(t, ValidatePath("a\x00b"))
	assert.NoError(t, ValidatePath("/tmp"))
}

func TestIsNested(t *testing.T) {
	assert.True(t, IsNested("/a/b", "/a"))
	assert.True(t, IsNested("/a", "/a/b"))
	assert.False(t, IsNested("/a", "/ab"))
	assert.False(t, IsNested("/a", "/b"))
}
