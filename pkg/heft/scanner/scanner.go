// Package scanner decides, for every candidate file under the workspace
// roots, whether it is in scope, measures its size and line count, and
// keeps the session's result set correct across bulk scans and
// single-file checks.
package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/types"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

// BatchSize is the number of files measured concurrently per batch. Batches
// are awaited before the next begins, bounding peak in-flight file handles
// while still overlapping I/O latency.
const BatchSize = 50

// Scanner evaluates candidate files against the exclusion rules and the
// size threshold.
type Scanner struct {
	fs    FS
	roots *workspace.Roots
}

// New creates a Scanner over the given workspace roots.
func New(fsys FS, roots *workspace.Roots) *Scanner {
	return &Scanner{fs: fsys, roots: roots}
}

// Scan enumerates every root, drops candidates failing the extension check
// or the exclusion predicate before any I/O, and measures the remainder in
// fixed-size concurrent batches. Stat failures skip the file; read failures
// substitute an estimated line count. With no workspace roots the result
// set is empty, not an error.
func (s *Scanner) Scan(ctx context.Context, state *exclusion.State, threshold types.Threshold) (types.ResultSet, types.ScanStats) {
	start := time.Now()
	logger := logging.Get("scanner")

	results := make(types.ResultSet)
	var stats types.ScanStats

	if s.roots.Empty() {
		stats.Elapsed = time.Since(start)
		return results, stats
	}

	for _, root := range s.roots.All() {
		paths, err := s.fs.ListFiles(ctx, root, state)
		if err != nil {
			logger.Warn("enumeration failed", "root", root, "error", err)
			continue
		}
		stats.Candidates += int64(len(paths))

		candidates := paths[:0]
		for _, p := range paths {
			if state.InScope(p) {
				candidates = append(candidates, p)
			}
		}

		s.measure(ctx, candidates, threshold, results, &stats)
	}

	stats.Oversized = int64(len(results))
	stats.Elapsed = time.Since(start)
	logger.Debug("bulk scan complete",
		"candidates", stats.Candidates,
		"oversized", stats.Oversized,
		"elapsed", stats.Elapsed)
	return results, stats
}

// measure processes candidates in batches of BatchSize, issuing the size
// queries of one batch concurrently and awaiting them before the next.
func (s *Scanner) measure(ctx context.Context, candidates []string, threshold types.Threshold, results types.ResultSet, stats *types.ScanStats) {
	limit := threshold.Bytes()

	var mu sync.Mutex
	for i := 0; i < len(candidates); i += BatchSize {
		end := i + BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		var wg sync.WaitGroup
		for _, path := range candidates[i:end] {
			wg.Add(1)
			go func(path string) {
				defer wg.Done()

				size, err := s.fs.Stat(ctx, path)
				if err != nil {
					// Transient races (deletion, permission) are expected.
					return
				}

				mu.Lock()
				stats.Measured++
				mu.Unlock()

				if size <= limit {
					return
				}
				lines := s.countLines(ctx, path, size)

				mu.Lock()
				results[path] = types.FileReport{Path: path, Size: size, Lines: lines}
				mu.Unlock()
			}(path)
		}
		wg.Wait()
	}
}

// countLines reads the file and counts line feeds, falling back to a
// size-based estimate when the content cannot be read.
func (s *Scanner) countLines(ctx context.Context, path string, size int64) int {
	content, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return EstimateLines(size)
	}
	return CountLines(content)
}

// Run performs a generation-guarded bulk scan into the session: it takes a
// fresh generation token, scans, and commits. It reports whether the
// results were applied or discarded as superseded.
func (s *Scanner) Run(ctx context.Context, state *exclusion.State, threshold types.Threshold, session *Session) bool {
	gen := session.Begin()
	results, _ := s.Scan(ctx, state, threshold)

	applied := session.Commit(gen, results)
	if !applied {
		logging.Get("scanner").Debug("discarding superseded scan",
			"session", session.ID(), "generation", gen)
	}
	return applied
}
