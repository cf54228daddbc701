package scanner

import (
	"context"

	"github.com/jamesainslie/heft/pkg/heft/exclusion"
	"github.com/jamesainslie/heft/pkg/heft/types"
)

// CheckOne re-evaluates a single file against the same rules as a bulk
// scan and mutates the session in place. Guards apply in order: workspace
// ownership, extension check, exclusion predicate, size query. Any early
// failure clears stale state for the path and returns. On success the
// prior entry is replaced wholesale, never merged.
//
// content carries the caller's already-decoded copy of the file, avoiding
// a disk re-read on save events; pass nil to read from the filesystem.
//
// The threshold comparison is identical to the bulk path: a file of
// exactly the threshold size is in scope but not oversized.
//
// CheckOne is not generation-guarded. A bulk scan still in flight at its
// own current generation may overwrite this update when it commits; both
// converge on the next event.
func (s *Scanner) CheckOne(ctx context.Context, path string, content []byte, state *exclusion.State, threshold types.Threshold, session *Session) {
	if _, owned := s.roots.Owner(path); !owned {
		session.Remove(path)
		return
	}
	if state.ExtensionExcluded(path) || state.IsExcluded(path) {
		session.Remove(path)
		return
	}

	size, err := s.fs.Stat(ctx, path)
	if err != nil {
		session.Remove(path)
		return
	}
	if size <= threshold.Bytes() {
		session.Remove(path)
		return
	}

	lines := 0
	if content != nil {
		lines = CountLines(content)
	} else {
		lines = s.countLines(ctx, path, size)
	}

	session.Update(types.FileReport{Path: path, Size: size, Lines: lines})
}
