package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

// writeTree lays out a small project tree for OSFS tests.
func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]int{
		"src/app.ts":              25000,
		"src/util.ts":             100,
		"node_modules/dep/mod.js": 30000,
		".git/objects/aa":         5000,
		"dist/bundle.js":          40000,
	}
	for rel, size := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, make([]byte, size), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func TestOSFSListFilesPrunesGlobMatches(t *testing.T) {
	dir := writeTree(t)
	state := exclusion.Build(nil, nil, nil, nil,
		[]string{"**/node_modules/**", "**/.git/**", "**/dist/**"})

	paths, err := OSFS{}.ListFiles(context.Background(), dir, state)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	got := make(map[string]bool, len(paths))
	for _, p := range paths {
		rel, _ := filepath.Rel(dir, p)
		got[filepath.ToSlash(rel)] = true
	}

	if !got["src/app.ts"] || !got["src/util.ts"] {
		t.Errorf("expected src files in listing, got %v", got)
	}
	for _, ignored := range []string{"node_modules/dep/mod.js", ".git/objects/aa", "dist/bundle.js"} {
		if got[ignored] {
			t.Errorf("glob-excluded file %s should be pruned", ignored)
		}
	}
}

func TestOSFSListFilesMatchesRelativePatterns(t *testing.T) {
	dir := writeTree(t)
	// User patterns written relative to the workspace root must match
	// without a **/ prefix.
	state := exclusion.Build(nil, nil, nil, []string{"dist/**", "src/util.ts"}, nil)

	paths, err := OSFS{}.ListFiles(context.Background(), dir, state)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	got := make(map[string]bool, len(paths))
	for _, p := range paths {
		rel, _ := filepath.Rel(dir, p)
		got[filepath.ToSlash(rel)] = true
	}

	if !got["src/app.ts"] {
		t.Errorf("unmatched file should be listed, got %v", got)
	}
	if got["dist/bundle.js"] {
		t.Error("relative folder pattern should prune dist/")
	}
	if got["src/util.ts"] {
		t.Error("relative file pattern should drop src/util.ts")
	}
}

func TestOSFSStat(t *testing.T) {
	dir := writeTree(t)
	ctx := context.Background()
	fsys := OSFS{}

	size, err := fsys.Stat(ctx, filepath.Join(dir, "src", "app.ts"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if size != 25000 {
		t.Errorf("size = %d, want 25000", size)
	}

	// Directories are not regular files.
	if _, err := fsys.Stat(ctx, filepath.Join(dir, "src")); err == nil {
		t.Error("Stat of a directory should fail")
	}
	// Missing file.
	if _, err := fsys.Stat(ctx, filepath.Join(dir, "gone.ts")); err == nil {
		t.Error("Stat of a missing file should fail")
	}
}

func TestScanAgainstRealFilesystem(t *testing.T) {
	dir := writeTree(t)
	roots, err := workspace.NewRoots(dir)
	if err != nil {
		t.Fatalf("roots: %v", err)
	}

	state := exclusion.Build(nil, nil, nil, nil,
		[]string{"**/node_modules/**", "**/.git/**", "**/dist/**"})

	sc := New(OSFS{}, roots)
	results, _ := sc.Scan(context.Background(), state, 20)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %v", len(results), results)
	}
	r, ok := results[filepath.Join(dir, "src", "app.ts")]
	if !ok {
		t.Fatal("src/app.ts should be the only oversized file")
	}
	// 25000 zero bytes: no line feeds, non-empty.
	if r.Lines != 1 {
		t.Errorf("Lines = %d, want 1", r.Lines)
	}
}
