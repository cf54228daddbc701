// Package workspace tracks the open workspace roots and resolves file
// ownership and display labels against them.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
)

// Roots is the ordered set of open workspace roots. With no roots, every
// scan yields an empty result set rather than an error.
type Roots struct {
	roots []string
}

// NewRoots resolves each path to absolute form and verifies it is a
// directory.
func NewRoots(paths ...string) (*Roots, error) {
	r := &Roots{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving root %q: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("checking root %q: %w", abs, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root is not a directory: %s", abs)
		}
		r.roots = append(r.roots, abs)
	}
	return r, nil
}

// Empty reports whether no workspace is open.
func (r *Roots) Empty() bool {
	return len(r.roots) == 0
}

// All returns the roots in order.
func (r *Roots) All() []string {
	return append([]string(nil), r.roots...)
}

// Owner returns the root that contains the path, matching on normalized
// forms with a boundary-exact prefix so sibling directories sharing a
// string prefix never match.
func (r *Roots) Owner(path string) (string, bool) {
	n := exclusion.NormalizePath(path)
	if n == "" {
		return "", false
	}
	for _, root := range r.roots {
		nr := exclusion.NormalizePath(root)
		if n == nr || strings.HasPrefix(n, nr+"/") {
			return root, true
		}
	}
	return "", false
}

// Rel returns the path relative to its owning root for display. Paths
// outside every root are returned unchanged.
func (r *Roots) Rel(path string) string {
	root, ok := r.Owner(path)
	if !ok {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Project returns the normalized first root, used as the key scoping
// persisted per-project state. Empty when no workspace is open.
func (r *Roots) Project() string {
	if len(r.roots) == 0 {
		return ""
	}
	return exclusion.NormalizePath(r.roots[0])
}
