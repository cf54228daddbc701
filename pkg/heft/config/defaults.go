// Package config provides configuration management for heft.
package config

// Default configuration values.
const (
	// DefaultThresholdKB is the oversized-file cutoff in kilobytes.
	DefaultThresholdKB = 20

	// DefaultEnabled controls whether scanning is active at all.
	DefaultEnabled = true

	// DefaultRunOnStartup triggers a bulk scan when watch mode starts.
	DefaultRunOnStartup = true

	// DefaultRunOnSave re-checks a file when it is written.
	DefaultRunOnSave = true
)

// DefaultExcludedExtensions lists extensions skipped out of the box.
// Documentation and data formats rarely benefit from a size warning.
var DefaultExcludedExtensions = []string{"md", "txt", "yaml", "yml", "toml", "json"}

// DefaultIgnoredFolders lists folder names pruned from enumeration out of
// the box, mostly build output and dependency trees.
var DefaultIgnoredFolders = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	".svelte-kit",
	".vite",
	"coverage",
	"__snapshots__",
	"paraglide",
}

// DefaultIgnoreGlobs returns the default folder names as glob patterns
// matching the folders anywhere in the tree.
func DefaultIgnoreGlobs() []string {
	globs := make([]string, 0, len(DefaultIgnoredFolders))
	for _, name := range DefaultIgnoredFolders {
		globs = append(globs, "**/"+name+"/**")
	}
	return globs
}
