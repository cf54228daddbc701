package exclusion

import (
	"sync"

	"github.com/jamesainslie/heft/pkg/heft/extension"
	"github.com/jamesainslie/heft/pkg/heft/store"
)

// Persisted list names.
const (
	listFolders    = "excluded_folders"
	listFiles      = "excluded_files"
	listExtensions = "excluded_extensions"
)

// Manager owns the persisted exclusion lists for one project and rebuilds
// State snapshots after toggles. Every toggle is a pure idempotent set
// operation: adding a present entry and removing an absent one are no-ops.
// Toggling never touches the scan result set; callers rebuild the State and
// re-run the appropriate scan.
type Manager struct {
	mu      sync.Mutex
	store   store.Store
	project string
}

// NewManager creates a Manager persisting into st under the project key.
func NewManager(st store.Store, project string) *Manager {
	return &Manager{store: st, project: project}
}

// ExcludeFolder adds a folder path to the persisted exclusions.
func (m *Manager) ExcludeFolder(path string) error {
	return m.addPath(listFolders, path)
}

// IncludeFolder removes a folder path from the persisted exclusions.
// Removal matches by normalized form, so a folder added as "/a/b/" is
// removed by "/a/b".
func (m *Manager) IncludeFolder(path string) error {
	return m.removePath(listFolders, path)
}

// ExcludeFile adds a file path to the persisted exclusions.
func (m *Manager) ExcludeFile(path string) error {
	return m.addPath(listFiles, path)
}

// IncludeFile removes a file path from the persisted exclusions.
func (m *Manager) IncludeFile(path string) error {
	return m.removePath(listFiles, path)
}

// ExcludeExtension adds an extension to the persisted excluded set. The
// persisted list is seeded from the configured defaults on first toggle.
// A malformed extension is silently rejected with no mutation.
func (m *Manager) ExcludeExtension(raw string, defaults []string) error {
	ext, ok := extension.NormalizeOne(raw)
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.extensionBase(defaults)
	if err != nil {
		return err
	}
	for _, e := range base {
		if e == ext {
			return nil
		}
	}
	return m.store.SetList(m.project, listExtensions, extension.NormalizeMany(append(base, ext)))
}

// IncludeExtension removes an extension from the persisted excluded set,
// seeding from the configured defaults on first toggle. A malformed
// extension is silently rejected.
func (m *Manager) IncludeExtension(raw string, defaults []string) error {
	ext, ok := extension.NormalizeOne(raw)
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.extensionBase(defaults)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(base))
	removed := false
	for _, e := range base {
		if e == ext {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	return m.store.SetList(m.project, listExtensions, kept)
}

// State loads the persisted lists and builds a fresh snapshot merging them
// with the configured extensions and glob patterns.
func (m *Manager) State(configuredExtensions, configuredGlobs, defaultGlobs []string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	folders, err := m.store.GetList(m.project, listFolders)
	if err != nil {
		return nil, err
	}
	files, err := m.store.GetList(m.project, listFiles)
	if err != nil {
		return nil, err
	}
	extensions, err := m.extensionBase(configuredExtensions)
	if err != nil {
		return nil, err
	}

	return Build(folders, files, extensions, configuredGlobs, defaultGlobs), nil
}

// extensionBase returns the persisted extension list, or the configured
// defaults when nothing has been persisted yet. A list written empty stays
// empty. Callers hold m.mu.
func (m *Manager) extensionBase(defaults []string) ([]string, error) {
	persisted, err := m.store.GetList(m.project, listExtensions)
	if err != nil {
		return nil, err
	}
	if persisted == nil {
		return extension.NormalizeMany(defaults), nil
	}
	return persisted, nil
}

// addPath appends the path in its original form unless an entry with the
// same normalized form is already present.
func (m *Manager) addPath(list, p string) error {
	n := NormalizePath(p)
	if n == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	values, err := m.store.GetList(m.project, list)
	if err != nil {
		return err
	}
	for _, v := range values {
		if NormalizePath(v) == n {
			return nil
		}
	}
	return m.store.SetList(m.project, list, append(values, p))
}

// removePath drops every entry whose normalized form equals the path's.
func (m *Manager) removePath(list, p string) error {
	n := NormalizePath(p)
	if n == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	values, err := m.store.GetList(m.project, list)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(values))
	removed := false
	for _, v := range values {
		if NormalizePath(v) == n {
			removed = true
			continue
		}
		kept = append(kept, v)
	}
	if !removed {
		return nil
	}
	return m.store.SetList(m.project, list, kept)
}
