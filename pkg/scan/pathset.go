package scan

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/sdejongh/treediff/internal/platform"
)

// PathSet is an immutable set of relative paths with a deterministic order
type PathSet struct {
	set    mapset.Set[string]
	sorted []string
}

// NewPathSet builds a set from paths; duplicates collapse
func NewPathSet(paths ...string) *PathSet {
	set := mapset.NewThreadUnsafeSet[string](paths...)
	return &PathSet{
		set:    set,
		sorted: sortedPaths(set),
	}
}

// Len returns the number of paths
func (p *PathSet) Len() int {
	return len(p.sorted)
}

// Contains reports whether rel is in the set
func (p *PathSet) Contains(rel string) bool {
	return p.set.Contains(rel)
}

// Sorted returns the paths in order. The slice must not be modified.
func (p *PathSet) Sorted() []string {
	return p.sorted
}

// Difference returns the paths in p that are not in other, in order
func (p *PathSet) Difference(other *PathSet) []string {
	return sortedPaths(p.set.Difference(other.set))
}

// Intersect returns the paths present in both sets, in order
func (p *PathSet) Intersect(other *PathSet) []string {
	return sortedPaths(p.set.Intersect(other.set))
}

func sortedPaths(set mapset.Set[string]) []string {
	paths := set.ToSlice()
	slices.SortFunc(paths, platform.ComparePaths)
	if paths == nil {
		paths = []string{}
	}
	return paths
}
