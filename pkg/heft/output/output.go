// Package output provides formatters for displaying heft scan results
// in various output formats (pretty, plain, json, jsonl).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/heft/pkg/heft/diagnostics"
	"github.com/jamesainslie/heft/pkg/heft/types"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

// Row is one oversized file prepared for display.
type Row struct {
	// Label is the workspace-relative path shown to the user.
	Label string `json:"label"`

	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Size is the human-readable file size (e.g., "24.4 KB").
	Size string `json:"size"`

	// Bytes is the file size in bytes.
	Bytes int64 `json:"bytes"`

	// Lines is the counted or estimated line count.
	Lines int `json:"lines"`

	// Message is the advisory diagnostic text for the file.
	Message string `json:"message"`
}

// Stats contains statistics about a scan operation.
type Stats struct {
	// Candidates is the number of files that survived exclusion filtering.
	Candidates int64 `json:"candidates"`

	// Measured is the number of files actually stat'd.
	Measured int64 `json:"measured"`

	// Oversized is the number of files exceeding the threshold.
	Oversized int64 `json:"oversized"`

	// Duration is the total time taken to complete the scan.
	Duration time.Duration `json:"duration"`
}

// Result contains the complete output data for formatting.
type Result struct {
	// Rows contains all oversized files, sorted by size descending.
	Rows []Row `json:"rows"`

	// Stats contains scan statistics.
	Stats Stats `json:"stats"`

	// Source is the workspace root that was scanned.
	Source string `json:"source"`

	// ThresholdKB is the cutoff the scan ran with.
	ThresholdKB int `json:"threshold_kb"`
}

// TotalBytes returns the sum of all oversized file sizes.
func (r *Result) TotalBytes() int64 {
	var total int64
	for _, row := range r.Rows {
		total += row.Bytes
	}
	return total
}

// BuildResult assembles a Result from scan output, sorted by size
// descending with workspace-relative labels.
func BuildResult(results types.ResultSet, stats types.ScanStats, roots *workspace.Roots, threshold types.Threshold) *Result {
	rows := make([]Row, 0, len(results))
	for _, report := range results {
		rows = append(rows, Row{
			Label:   roots.Rel(report.Path),
			Path:    report.Path,
			Size:    report.HumanSize(),
			Bytes:   report.Size,
			Lines:   report.Lines,
			Message: diagnostics.Message(report.Size, report.Lines),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Bytes != rows[j].Bytes {
			return rows[i].Bytes > rows[j].Bytes
		}
		return rows[i].Path < rows[j].Path
	})

	source := ""
	if all := roots.All(); len(all) > 0 {
		source = all[0]
	}

	return &Result{
		Rows: rows,
		Stats: Stats{
			Candidates: stats.Candidates,
			Measured:   stats.Measured,
			Oversized:  stats.Oversized,
			Duration:   stats.Elapsed,
		},
		Source:      source,
		ThresholdKB: int(threshold),
	}
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
