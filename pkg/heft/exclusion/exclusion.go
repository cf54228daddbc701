// Package exclusion merges configured glob patterns and persisted folder and
// file exclusion lists into one immutable, queryable snapshot, and provides
// the normalized path comparison used everywhere exclusions are matched.
package exclusion

import (
	"path"
	"runtime"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/heft/pkg/heft/extension"
)

// foldCase is true on platforms whose default filesystems compare paths
// case-insensitively.
var foldCase = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// NormalizePath canonicalizes a path for equality comparison: separators
// become forward slashes, the path is cleaned, trailing separators are
// stripped, and case is folded on case-insensitive filesystems.
// NormalizePath is idempotent.
func NormalizePath(p string) string {
	s := strings.TrimSpace(p)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Clean(s)
	if s != "/" {
		s = strings.TrimSuffix(s, "/")
	}
	if foldCase {
		s = strings.ToLower(s)
	}
	return s
}

// State is an immutable snapshot of the effective exclusion rules: the
// excluded extension set, the normalized excluded folder and file sets, the
// original list forms for display, and a single compiled glob expression
// merging default ignore patterns with user-supplied patterns.
type State struct {
	extensions extension.Set

	folders map[string]struct{}
	files   map[string]struct{}

	displayFolders []string
	displayFiles   []string

	pattern  string
	compiled glob.Glob
}

// Build constructs a State from persisted folder and file paths, the
// configured extension list, and the configured plus default glob patterns.
// Malformed persisted entries are kept as literal, non-matching strings
// rather than rejected; Build never fails.
func Build(folders, files, extensions, globs, defaultGlobs []string) *State {
	s := &State{
		extensions:     extension.NewSet(extensions),
		folders:        make(map[string]struct{}, len(folders)),
		files:          make(map[string]struct{}, len(files)),
		displayFolders: append([]string(nil), folders...),
		displayFiles:   append([]string(nil), files...),
	}

	for _, f := range folders {
		if n := NormalizePath(f); n != "" {
			s.folders[n] = struct{}{}
		}
	}
	for _, f := range files {
		if n := NormalizePath(f); n != "" {
			s.files[n] = struct{}{}
		}
	}

	s.pattern = MergeGlobs(defaultGlobs, globs)
	if s.pattern != "" {
		if g, err := glob.Compile(s.pattern, '/'); err == nil {
			s.compiled = g
		}
	}

	return s
}

// MergeGlobs combines default and configured glob patterns into a single
// deterministic expression: defaults first, trimmed, empties dropped,
// de-duplicated preserving first-seen order. Zero patterns yield the empty
// string, one pattern is used literally, and multiple patterns become a
// brace-grouped alternation.
func MergeGlobs(defaults, configured []string) string {
	seen := make(map[string]struct{})
	merged := make([]string, 0, len(defaults)+len(configured))
	for _, p := range append(append([]string(nil), defaults...), configured...) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		merged = append(merged, p)
	}

	switch len(merged) {
	case 0:
		return ""
	case 1:
		return merged[0]
	default:
		return "{" + strings.Join(merged, ",") + "}"
	}
}

// IsExcluded reports whether the path is excluded by the folder or file
// sets: an exact member of the excluded-files set, or equal to or strictly
// inside an excluded folder. Folder matching is boundary-exact so that an
// exclusion of "foo" never matches "foo2".
func (s *State) IsExcluded(p string) bool {
	n := NormalizePath(p)
	if n == "" {
		return false
	}
	if _, ok := s.files[n]; ok {
		return true
	}
	for folder := range s.folders {
		if n == folder || strings.HasPrefix(n, folder+"/") {
			return true
		}
	}
	return false
}

// ExtensionExcluded reports whether the path's extension is in the excluded
// set. This check is independent of IsExcluded; callers apply both.
func (s *State) ExtensionExcluded(p string) bool {
	return s.extensions.Contains(extension.FromPath(p))
}

// InScope reports whether the path passes both the extension check and the
// path exclusion predicate.
func (s *State) InScope(p string) bool {
	return !s.ExtensionExcluded(p) && !s.IsExcluded(p)
}

// MatchesGlob reports whether the path matches the compiled ignore
// expression. Paths are matched in slashed form. With no patterns
// configured, nothing matches.
func (s *State) MatchesGlob(p string) bool {
	if s.compiled == nil {
		return false
	}
	return s.compiled.Match(strings.ReplaceAll(p, "\\", "/"))
}

// GlobPattern returns the merged ignore expression, usable by enumeration
// collaborators. Empty means no filter.
func (s *State) GlobPattern() string {
	return s.pattern
}

// Extensions returns the excluded extensions in ascending order.
func (s *State) Extensions() []string {
	return s.extensions.Sorted()
}

// ExcludedFolders returns the excluded folders in their original,
// non-normalized display form.
func (s *State) ExcludedFolders() []string {
	return append([]string(nil), s.displayFolders...)
}

// ExcludedFiles returns the excluded files in their original,
// non-normalized display form.
func (s *State) ExcludedFiles() []string {
	return append([]string(nil), s.displayFiles...)
}

// folderSet returns a copy of the normalized folder set. Used by tests to
// compare snapshots.
func (s *State) folderSet() map[string]struct{} {
	out := make(map[string]struct{}, len(s.folders))
	for f := range s.folders {
		out[f] = struct{}{}
	}
	return out
}

// fileSet returns a copy of the normalized file set.
func (s *State) fileSet() map[string]struct{} {
	out := make(map[string]struct{}, len(s.files))
	for f := range s.files {
		out[f] = struct{}{}
	}
	return out
}
