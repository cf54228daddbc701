// Package watch provides filesystem watching for incremental re-checks.
//
// A Watcher keeps the scan session current as files change: writes and
// creations trigger a single-file re-check, removals clear the file's
// entry and diagnostic.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/scanner"
	"github.com/jamesainslie/heft/pkg/heft/types"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

// Watcher watches workspace roots for filesystem changes and re-checks
// files against the size threshold as they are written.
type Watcher struct {
	scanner   *scanner.Scanner
	session   *scanner.Session
	watcher   *fsnotify.Watcher
	threshold types.Threshold

	mu     sync.RWMutex
	state  *exclusion.State
	roots  *workspace.Roots
	paths  map[string]bool
	closed bool
}

// New creates a Watcher driving the given session.
func New(sc *scanner.Scanner, session *scanner.Session, state *exclusion.State, threshold types.Threshold) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		scanner:   sc,
		session:   session,
		watcher:   fsw,
		threshold: threshold,
		state:     state,
		paths:     make(map[string]bool),
	}, nil
}

// SetState replaces the exclusion state used for subsequent events.
// Called after an exclusion toggle so the next event sees the new rules.
func (w *Watcher) SetState(state *exclusion.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
}

// currentState returns the exclusion state under the read lock.
func (w *Watcher) currentState() *exclusion.State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// WatchRoots starts watching every workspace root recursively. The roots
// are retained so later events can be glob-matched in relative form.
func (w *Watcher) WatchRoots(roots *workspace.Roots) error {
	w.mu.Lock()
	w.roots = roots
	w.mu.Unlock()

	for _, root := range roots.All() {
		if err := w.Watch(root); err != nil {
			return err
		}
	}
	return nil
}

// Watch starts watching a path recursively.
// It adds watches to the root directory and all subdirectories except
// excluded ones. Symlinks are not followed to avoid loops.
func (w *Watcher) Watch(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	info, err := os.Lstat(absRoot)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil // Only watch directories
	}

	state := w.currentState()
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip entries with errors
		}

		// Skip symlinks to avoid loops
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		// Excluded directories produce no events worth re-checking.
		if path != absRoot && (state.IsExcluded(path) || globMatchesDir(state, path, relSlash(absRoot, path))) {
			return filepath.SkipDir
		}

		return w.addWatch(path)
	})
}

// addWatch adds a single directory to the watch list.
func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	if w.paths[path] {
		return nil
	}

	if err := w.watcher.Add(path); err != nil {
		logging.Get("watcher").Warn("failed to add watch", "path", path, "error", err)
		return err
	}

	w.paths[path] = true
	return nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get("watcher").Error("watcher error", "error", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Create != 0:
		w.handleCreate(ctx, event.Name)
	case event.Op&fsnotify.Write != 0:
		w.handleWrite(ctx, event.Name)
	case event.Op&fsnotify.Remove != 0:
		w.handleRemove(event.Name)
	case event.Op&fsnotify.Rename != 0:
		// Rename is treated as a remove; the new name triggers a create.
		w.handleRemove(event.Name)
	}
}

// handleCreate handles file/directory creation events.
func (w *Watcher) handleCreate(ctx context.Context, path string) {
	info, err := os.Lstat(path)
	if err != nil {
		return // Might have been deleted already
	}

	// Skip symlinks
	if info.Mode()&fs.ModeSymlink != 0 {
		return
	}

	if info.IsDir() {
		state := w.currentState()
		if state.IsExcluded(path) || globMatchesDir(state, path, w.relPath(path)) {
			return
		}
		// Watch the new directory and any subdirectories created with it.
		_ = w.addWatch(path)
		_ = filepath.WalkDir(path, func(subpath string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil //nolint:nilerr // Skip entries with errors
			}
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if d.IsDir() && subpath != path {
				_ = w.addWatch(subpath)
			}
			return nil
		})
		return
	}

	w.check(ctx, path)
}

// handleWrite handles file modification events.
func (w *Watcher) handleWrite(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	w.check(ctx, path)
}

// check re-evaluates one file against the current rules and threshold.
func (w *Watcher) check(ctx context.Context, path string) {
	w.scanner.CheckOne(ctx, path, nil, w.currentState(), w.threshold, w.session)
}

// handleRemove handles file/directory deletion events.
func (w *Watcher) handleRemove(path string) {
	w.mu.Lock()
	if w.paths[path] {
		_ = w.watcher.Remove(path)
		delete(w.paths, path)
	}
	// Also drop any child watches.
	for childPath := range w.paths {
		if isSubPath(childPath, path) {
			_ = w.watcher.Remove(childPath)
			delete(w.paths, childPath)
		}
	}
	w.mu.Unlock()

	// Clear the entry whether path was a file or a directory; removing
	// an absent path is a no-op.
	w.session.Remove(path)
	for _, p := range w.session.Paths() {
		if isSubPath(p, path) {
			w.session.Remove(p)
		}
	}
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	w.paths = make(map[string]bool)
	return w.watcher.Close()
}

// relPath returns the path relative to its owning workspace root in
// slashed form, or "" when no root owns it.
func (w *Watcher) relPath(path string) string {
	w.mu.RLock()
	roots := w.roots
	w.mu.RUnlock()

	if roots == nil {
		return ""
	}
	if rel := roots.Rel(path); rel != path {
		return rel
	}
	return ""
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

// globMatchesDir checks a directory against the ignore expression in
// absolute and root-relative form, with trailing-slash variants so
// patterns of the form **/name/** match the directory itself.
func globMatchesDir(state *exclusion.State, path, rel string) bool {
	if state.MatchesGlob(path) || state.MatchesGlob(path+"/") {
		return true
	}
	return rel != "" && (state.MatchesGlob(rel) || state.MatchesGlob(rel+"/"))
}

// isSubPath checks if path is under parent directory.
func isSubPath(path, parent string) bool {
	return len(path) > len(parent) && path[:len(parent)+1] == parent+string(filepath.Separator)
}
