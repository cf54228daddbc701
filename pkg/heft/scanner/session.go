package scanner

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jamesainslie/heft/pkg/heft/diagnostics"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

// Session owns the live result set, the scan generation counter, and the
// diagnostics sink. The result set is fully replaced by a committed bulk
// scan and incrementally mutated by single-file checks; every mutation
// keeps the diagnostics sink in step.
type Session struct {
	id   string
	gen  atomic.Uint64
	sink diagnostics.Sink

	mu      sync.Mutex
	results types.ResultSet
}

// NewSession creates an empty session publishing into sink. A nil sink
// discards diagnostics.
func NewSession(sink diagnostics.Sink) *Session {
	if sink == nil {
		sink = diagnostics.Nop
	}
	return &Session{
		id:      uuid.NewString(),
		sink:    sink,
		results: make(types.ResultSet),
	}
}

// ID returns the session's identifier, used for log correlation.
func (s *Session) ID() string {
	return s.id
}

// Begin advances the scan generation and returns the new token. A bulk
// scan holds its token until completion and commits against it.
func (s *Session) Begin() uint64 {
	return s.gen.Add(1)
}

// Generation returns the current generation token.
func (s *Session) Generation() uint64 {
	return s.gen.Load()
}

// Commit replaces the result set with a completed bulk scan's results,
// unless the generation has advanced past gen, in which case the stale
// results are discarded and Commit reports false. Diagnostics are cleared
// for dropped paths and published for every present entry.
func (s *Session) Commit(gen uint64, results types.ResultSet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen.Load() != gen {
		return false
	}

	for p := range s.results {
		if _, ok := results[p]; !ok {
			s.sink.Discard(p)
		}
	}
	for p, r := range results {
		s.sink.Publish(p, diagnostics.For(r))
	}
	s.results = results.Clone()
	return true
}

// Update replaces the entry for a single file and republishes its
// diagnostic. Incremental updates are not generation-guarded.
func (s *Session) Update(r types.FileReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[r.Path] = r
	s.sink.Publish(r.Path, diagnostics.For(r))
}

// Remove clears any entry and diagnostic for the path. Removing an absent
// path is a no-op.
func (s *Session) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.results, path)
	s.sink.Discard(path)
}

// Results returns a snapshot of the current result set.
func (s *Session) Results() types.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results.Clone()
}

// Paths returns the tracked file paths in no particular order.
func (s *Session) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.results))
	for p := range s.results {
		paths = append(paths, p)
	}
	return paths
}

// Len returns the number of oversized files currently tracked.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
