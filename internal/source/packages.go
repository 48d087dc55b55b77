// Package source derives Java package names from source trees.
package source

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// JavaExt is the extension of the files that define packages.
const JavaExt = ".java"

// PackageSet is a set of Java package names.
type PackageSet map[string]struct{}

// NewPackageSet creates a set holding names.
func NewPackageSet(names ...string) PackageSet {
	s := make(PackageSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name. The default (unnamed) package is ignored since it
// cannot be passed to javadoc by name.
func (s PackageSet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s PackageSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union adds every name of other to s.
func (s PackageSet) Union(other PackageSet) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Sorted returns the names in lexical order.
func (s PackageSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of packages.
func (s PackageSet) Len() int {
	return len(s)
}

// Scan walks the source roots and returns the package of every .java
// file, derived from its directory relative to the root. Relative roots
// are resolved against baseDir. A root that cannot be read contributes no
// packages; scanning never fails.
func Scan(baseDir string, roots []string) PackageSet {
	set := NewPackageSet()
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, root)
		}
		scanRoot(root, set)
	}
	return set
}

func scanRoot(root string, set PackageSet) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), JavaExt) {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil || rel == "." {
			return nil
		}
		set.Add(strings.ReplaceAll(filepath.ToSlash(rel), "/", "."))
		return nil
	})
}

// Parse splits a space-separated list of package names, as accepted by
// the descriptor's include option.
func Parse(list string) PackageSet {
	return NewPackageSet(strings.Fields(list)...)
}
