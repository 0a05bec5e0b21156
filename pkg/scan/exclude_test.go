package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"no patterns", nil, "a.txt", false},
		{"basename glob", []string{"*.tmp"}, "dir/file.tmp", true},
		{"basename glob miss", []string{"*.tmp"}, "dir/file.txt", false},
		{"dir pattern top", []string{".git/"}, ".git", true},
		{"dir pattern nested", []string{".git/"}, "repo/.git", true},
		{"dir pattern child", []string{".git/"}, ".git/config", true},
		{"dir pattern deep child", []string{"node_modules/"}, "web/node_modules/x/y.js", true},
		{"dir pattern no partial", []string{"build/"}, "builds", false},
		{"path glob", []string{"build/*"}, "build/out", true},
		{"path glob anchored", []string{"build/*"}, "src/build/out", false},
		{"any depth", []string{"**/cache"}, "a/b/cache", true},
		{"any depth top", []string{"**/cache"}, "cache", true},
		{"any depth glob", []string{"**/cache/*"}, "x/cache/item", true},
		{"backslashes", []string{`build\*`}, "build/out", true},
		{"blank ignored", []string{"  ", ""}, "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMatcher(tt.patterns).Match(tt.path))
		})
	}
}

func TestMatcher_Empty(t *testing.T) {
	var nilMatcher *Matcher
	assert.True(t, nilMatcher.Empty())
	assert.False(t, nilMatcher.Match("x"))
	assert.True(t, NewMatcher([]string{" "}).Empty())
	assert.False(t, NewMatcher([]string{"*.go"}).Empty())
}
