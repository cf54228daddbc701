package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract exercises the Store semantics shared by both backends.
func storeContract(t *testing.T, s Store) {
	t.Helper()

	// Never-written list reads as nil.
	values, err := s.GetList("proj", "excluded_folders")
	require.NoError(t, err)
	assert.Nil(t, values)

	// Round trip.
	require.NoError(t, s.SetList("proj", "excluded_folders", []string{"/p/dist", "/p/vendor"}))
	values, err = s.GetList("proj", "excluded_folders")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/dist", "/p/vendor"}, values)

	// A list written empty reads as a non-nil empty slice, distinct from
	// never-written.
	require.NoError(t, s.SetList("proj", "excluded_extensions", []string{}))
	values, err = s.GetList("proj", "excluded_extensions")
	require.NoError(t, err)
	require.NotNil(t, values)
	assert.Empty(t, values)

	// Lists are scoped per project.
	values, err = s.GetList("other", "excluded_folders")
	require.NoError(t, err)
	assert.Nil(t, values)

	// Replacement, not append.
	require.NoError(t, s.SetList("proj", "excluded_folders", []string{"/p/build"}))
	values, err = s.GetList("proj", "excluded_folders")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/build"}, values)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	storeContract(t, s)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.SetList("proj", "excluded_files", []string{"/p/gen.ts"}))

	values, err := s.GetList("proj", "excluded_files")
	require.NoError(t, err)
	values[0] = "mutated"

	again, err := s.GetList("proj", "excluded_files")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/gen.ts"}, again)
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	storeContract(t, s)
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetList("proj", "excluded_folders", []string{"/p/dist"}))
	require.NoError(t, s.Close())

	reopened, err := OpenBadger(dir)
	require.NoError(t, err)
	defer reopened.Close()

	values, err := reopened.GetList("proj", "excluded_folders")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/dist"}, values)
}
