package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/scanner"
	"github.com/jamesainslie/heft/pkg/heft/types"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

const eventWait = 3 * time.Second

// startWatcher wires a watcher over a fresh tempdir workspace and runs
// its event loop until the test ends.
func startWatcher(t *testing.T, state *exclusion.State) (*Watcher, *scanner.Session, string) {
	t.Helper()
	dir := t.TempDir()

	roots, err := workspace.NewRoots(dir)
	require.NoError(t, err)

	session := scanner.NewSession(nil)
	sc := scanner.New(scanner.OSFS{}, roots)

	w, err := New(sc, session, state, types.Threshold(20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.WatchRoots(roots))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	return w, session, dir
}

func TestWatcherPicksUpOversizedWrite(t *testing.T) {
	_, session, dir := startWatcher(t, exclusion.Build(nil, nil, nil, nil, nil))

	path := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(path, make([]byte, 25000), 0o644))

	require.Eventually(t, func() bool {
		_, ok := session.Results()[path]
		return ok
	}, eventWait, 10*time.Millisecond, "oversized write should be reported")
}

func TestWatcherIgnoresSmallWrite(t *testing.T) {
	_, session, dir := startWatcher(t, exclusion.Build(nil, nil, nil, nil, nil))

	small := filepath.Join(dir, "small.ts")
	require.NoError(t, os.WriteFile(small, make([]byte, 100), 0o644))
	// A second oversized file proves events have been processed past the
	// small one.
	big := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(big, make([]byte, 25000), 0o644))

	require.Eventually(t, func() bool {
		_, ok := session.Results()[big]
		return ok
	}, eventWait, 10*time.Millisecond)

	_, ok := session.Results()[small]
	assert.False(t, ok, "small file must not be tracked")
}

func TestWatcherClearsRemovedFile(t *testing.T) {
	_, session, dir := startWatcher(t, exclusion.Build(nil, nil, nil, nil, nil))

	path := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(path, make([]byte, 25000), 0o644))

	require.Eventually(t, func() bool {
		return session.Len() == 1
	}, eventWait, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		return session.Len() == 0
	}, eventWait, 10*time.Millisecond, "removed file's entry should be cleared")
}

func TestWatcherSkipsExcludedFolderEvents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))

	roots, err := workspace.NewRoots(dir)
	require.NoError(t, err)

	state := exclusion.Build([]string{filepath.Join(dir, "node_modules")}, nil, nil, nil, nil)
	session := scanner.NewSession(nil)
	sc := scanner.New(scanner.OSFS{}, roots)

	w, err := New(sc, session, state, types.Threshold(20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	require.NoError(t, w.WatchRoots(roots))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	excluded := filepath.Join(dir, "node_modules", "dep.js")
	require.NoError(t, os.WriteFile(excluded, make([]byte, 25000), 0o644))
	big := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(big, make([]byte, 25000), 0o644))

	require.Eventually(t, func() bool {
		_, ok := session.Results()[big]
		return ok
	}, eventWait, 10*time.Millisecond)

	_, ok := session.Results()[excluded]
	assert.False(t, ok, "excluded folder's file must not be tracked")
}

func TestWatcherSkipsRelativeGlobFolder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))

	roots, err := workspace.NewRoots(dir)
	require.NoError(t, err)

	// A pattern relative to the workspace root, without a **/ prefix.
	state := exclusion.Build(nil, nil, nil, []string{"node_modules/**"}, nil)
	session := scanner.NewSession(nil)
	sc := scanner.New(scanner.OSFS{}, roots)

	w, err := New(sc, session, state, types.Threshold(20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	require.NoError(t, w.WatchRoots(roots))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	ignored := filepath.Join(dir, "node_modules", "dep.js")
	require.NoError(t, os.WriteFile(ignored, make([]byte, 25000), 0o644))
	big := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(big, make([]byte, 25000), 0o644))

	require.Eventually(t, func() bool {
		_, ok := session.Results()[big]
		return ok
	}, eventWait, 10*time.Millisecond)

	_, ok := session.Results()[ignored]
	assert.False(t, ok, "relative glob folder's file must not be tracked")
}

func TestWatcherSetStateAppliesNewRules(t *testing.T) {
	w, session, dir := startWatcher(t, exclusion.Build(nil, nil, nil, nil, nil))

	path := filepath.Join(dir, "big.ts")
	require.NoError(t, os.WriteFile(path, make([]byte, 25000), 0o644))

	require.Eventually(t, func() bool {
		return session.Len() == 1
	}, eventWait, 10*time.Millisecond)

	// Exclude .ts files; the next write must clear the entry instead of
	// refreshing it.
	w.SetState(exclusion.Build(nil, nil, []string{"ts"}, nil, nil))
	require.NoError(t, os.WriteFile(path, make([]byte, 26000), 0o644))

	require.Eventually(t, func() bool {
		return session.Len() == 0
	}, eventWait, 10*time.Millisecond, "newly excluded extension should clear the entry")
}

func TestWatcherWatchesNewDirectories(t *testing.T) {
	_, session, dir := startWatcher(t, exclusion.Build(nil, nil, nil, nil, nil))

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))

	path := filepath.Join(sub, "big.ts")
	// The directory watch is added asynchronously by the create event, so
	// retry the write until the event lands.
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, make([]byte, 25000), 0o644); err != nil {
			return false
		}
		_, ok := session.Results()[path]
		return ok
	}, eventWait, 50*time.Millisecond, "file in new subdirectory should be reported")
}
