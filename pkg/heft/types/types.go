// Package types provides core data types for the heft oversized-file scanner.
// It includes the size threshold, per-file reports, the live result set, and
// utility functions for formatting file sizes for display.
package types

import (
	"fmt"
	"time"
)

// Size constants in bytes.
const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
)

// Threshold is the oversized-file cutoff, expressed in kilobytes.
type Threshold int

// Bytes converts the threshold to bytes. A threshold below 1 KB is clamped
// to 1 KB so the cutoff is always positive.
func (t Threshold) Bytes() int64 {
	kb := int64(t)
	if kb < 1 {
		kb = 1
	}
	return kb * KB
}

// Exceeds reports whether size is strictly over the threshold.
// A file of exactly the threshold size is not oversized.
func (t Threshold) Exceeds(size int64) bool {
	return size > t.Bytes()
}

// FileReport describes one oversized file.
// A report is created when a file exceeds the threshold, replaced wholesale
// when the file is remeasured, and removed when the file drops below the
// threshold, becomes excluded, or disappears.
type FileReport struct {
	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Lines is the file's line count, or an estimate when the content
	// could not be read.
	Lines int `json:"lines"`
}

// HumanSize returns the file size formatted as a human-readable string.
func (r FileReport) HumanSize() string {
	return FormatSize(r.Size)
}

// ResultSet maps a file's absolute path to its report.
type ResultSet map[string]FileReport

// Clone returns a shallow copy of the result set.
func (rs ResultSet) Clone() ResultSet {
	out := make(ResultSet, len(rs))
	for p, r := range rs {
		out[p] = r
	}
	return out
}

// ScanStats contains statistics about a bulk scan.
type ScanStats struct {
	// Candidates is the number of files that passed the glob filter.
	Candidates int64 `json:"candidates"`

	// Measured is the number of files whose size was queried.
	Measured int64 `json:"measured"`

	// Oversized is the number of files exceeding the threshold.
	Oversized int64 `json:"oversized"`

	// Elapsed is the total time taken to complete the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// FormatSize converts a size in bytes to a human-readable string with one
// decimal place, using 1024-based units.
//
// Examples:
//   - FormatSize(512) returns "512 B"
//   - FormatSize(25000) returns "24.4 KB"
//   - FormatSize(1153434) returns "1.1 MB"
func FormatSize(bytes int64) string {
	switch {
	case bytes < KB:
		return fmt.Sprintf("%d B", bytes)
	case bytes < MB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	case bytes < GB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	default:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	}
}
