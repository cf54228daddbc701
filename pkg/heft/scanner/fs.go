package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
)

// FS is the filesystem capability the scanner depends on. All calls are
// fallible; the scanner absorbs failures per file instead of propagating
// them. Tests inject fakes.
type FS interface {
	// ListFiles enumerates regular files under root, pruning anything the
	// state's compiled glob expression matches.
	ListFiles(ctx context.Context, root string, state *exclusion.State) ([]string, error)

	// Stat returns the size in bytes of a regular file.
	Stat(ctx context.Context, path string) (int64, error)

	// ReadFile returns the raw content of a file.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// OSFS implements FS against the local filesystem, walking with fastwalk.
type OSFS struct{}

// ListFiles walks root, skipping glob-excluded directories whole and
// collecting regular files that pass the glob filter. Patterns are matched
// against both the absolute path and the root-relative path, so a
// configured "dist/**" matches alongside the default "**/name/**" forms.
// Per-entry walk errors are skipped, not surfaced.
func (OSFS) ListFiles(ctx context.Context, root string, state *exclusion.State) ([]string, error) {
	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	var (
		mu    sync.Mutex
		paths []string
	)

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}

		rel := relSlash(root, path)
		if d.IsDir() {
			if path != root && globMatchesDir(state, path, rel) {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if globMatchesFile(state, path, rel) {
			return nil
		}

		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// relSlash returns path relative to root in slashed form, or "" when the
// path cannot be made relative without escaping the root.
func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}

// globMatchesFile checks a file against the ignore expression in absolute
// and root-relative form.
func globMatchesFile(state *exclusion.State, path, rel string) bool {
	if state.MatchesGlob(path) {
		return true
	}
	return rel != "" && state.MatchesGlob(rel)
}

// globMatchesDir checks a directory the same way, with trailing-slash
// variants so patterns of the form **/name/** prune the directory itself.
func globMatchesDir(state *exclusion.State, path, rel string) bool {
	if state.MatchesGlob(path) || state.MatchesGlob(path+"/") {
		return true
	}
	return rel != "" && (state.MatchesGlob(rel) || state.MatchesGlob(rel+"/"))
}

// Stat returns the file's size. Non-regular files are an error so a
// directory saved at a watched path never enters the result set.
func (OSFS) Stat(_ context.Context, path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, os.ErrInvalid
	}
	return info.Size(), nil
}

// ReadFile returns the file's raw bytes.
func (OSFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
