// Package diagnostics delivers one warning per oversized file to a
// presentation sink. The sink is a narrow capability interface so the core
// stays host-free and unit-testable.
package diagnostics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jamesainslie/heft/pkg/heft/types"
)

// Severity classifies a diagnostic. Oversized files are always warnings.
type Severity int

// Severity levels.
const (
	SeverityWarning Severity = iota
	SeverityInfo
)

// Diagnostic is one annotation attached to a file.
type Diagnostic struct {
	Path     string
	Message  string
	Severity Severity
}

// Sink receives per-file diagnostics. Implementations must tolerate
// Discard for paths that were never published.
type Sink interface {
	// Publish attaches (or replaces) the diagnostic for a path.
	Publish(path string, d Diagnostic)

	// Discard removes any diagnostic for a path.
	Discard(path string)
}

// Message returns the warning text for an oversized file.
func Message(size int64, lines int) string {
	return fmt.Sprintf("File size %s (=%d lines). Consider splitting into smaller modules.",
		types.FormatSize(size), lines)
}

// For builds the warning diagnostic for a file report.
func For(r types.FileReport) Diagnostic {
	return Diagnostic{
		Path:     r.Path,
		Message:  Message(r.Size, r.Lines),
		Severity: SeverityWarning,
	}
}

// Collector is an in-memory Sink used by the CLI and by tests.
type Collector struct {
	mu sync.RWMutex
	m  map[string]Diagnostic
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{m: make(map[string]Diagnostic)}
}

// Publish attaches or replaces the diagnostic for a path.
func (c *Collector) Publish(path string, d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[path] = d
}

// Discard removes the diagnostic for a path, if any.
func (c *Collector) Discard(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, path)
}

// Get returns the diagnostic for a path.
func (c *Collector) Get(path string) (Diagnostic, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.m[path]
	return d, ok
}

// Len returns the number of attached diagnostics.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Paths returns the annotated paths in ascending order.
func (c *Collector) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.m))
	for p := range c.m {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// nop is a Sink that drops everything.
type nop struct{}

func (nop) Publish(string, Diagnostic) {}
func (nop) Discard(string)             {}

// Nop is a Sink that discards all diagnostics.
var Nop Sink = nop{}
