package scan

import (
	"path"
	"strings"
)

// Matcher decides whether a relative path is excluded from a scan.
//
// Pattern forms:
//   - basename globs: *.tmp, *.log
//   - directory patterns with a trailing slash: .git/, node_modules/
//   - path globs anchored at the root: build/*
//   - any-depth patterns: **/cache, **/cache/*
type Matcher struct {
	patterns []string
}

// NewMatcher normalizes patterns and drops empty ones
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
		if p != "" {
			m.patterns = append(m.patterns, p)
		}
	}
	return m
}

// Empty reports whether the matcher has no patterns
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Match reports whether rel (slash-separated) is excluded
func (m *Matcher) Match(rel string) bool {
	if m.Empty() {
		return false
	}

	base := path.Base(rel)
	for _, pattern := range m.patterns {
		switch {
		case strings.HasSuffix(pattern, "/"):
			dir := strings.TrimSuffix(pattern, "/")
			if rel == dir || base == dir ||
				strings.HasPrefix(rel, dir+"/") ||
				strings.Contains(rel, "/"+dir+"/") {
				return true
			}

		case strings.HasPrefix(pattern, "**/"):
			suffix := strings.TrimPrefix(pattern, "**/")
			if globMatch(suffix, base) || globMatch(suffix, rel) {
				return true
			}
			// try the suffix against every tail of the path
			for i := 0; i < len(rel); i++ {
				if rel[i] == '/' && globMatch(suffix, rel[i+1:]) {
					return true
				}
			}

		case strings.Contains(pattern, "/"):
			if globMatch(pattern, rel) {
				return true
			}

		default:
			if globMatch(pattern, base) {
				return true
			}
		}
	}
	return false
}

func globMatch(pattern, name string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}
