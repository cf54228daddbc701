// Package extension normalizes user-entered file extension strings into a
// canonical, comparable form and derives a file's extension from its path.
package extension

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// validPattern constrains normalized extensions to lowercase alphanumerics
// plus dot, underscore, and hyphen.
var validPattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// NormalizeOne canonicalizes a single raw extension string: trim whitespace,
// strip one leading dot, lowercase. It returns false when the remainder is
// empty or contains characters outside [a-z0-9._-].
func NormalizeOne(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, ".")
	s = strings.ToLower(s)
	if s == "" || !validPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// NormalizeMany canonicalizes a list of raw extension strings, dropping
// invalid entries. The result is sorted ascending and de-duplicated so
// repeated builds produce stable, comparable lists.
func NormalizeMany(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		ext, ok := NormalizeOne(r)
		if !ok {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// FromPath returns the normalized extension of the path's final segment.
// A dotfile's name after the dot counts as its extension, so ".gitignore"
// yields "gitignore" and can be matched by name.
func FromPath(path string) string {
	ext := filepath.Ext(filepath.Base(path))
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// Set is a set of normalized extensions. Membership is case-insensitive.
type Set map[string]struct{}

// NewSet builds a Set from raw extension strings, normalizing each entry.
func NewSet(raw []string) Set {
	s := make(Set)
	for _, ext := range NormalizeMany(raw) {
		s[ext] = struct{}{}
	}
	return s
}

// Contains reports whether ext is a member, comparing case-insensitively.
func (s Set) Contains(ext string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
