package kvstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"file":   fs,
		"memory": NewMemStore(),
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("cart")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set("cart", []byte(`{"a":1}`)))

			got, err := s.Get("cart")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":1}`), got)

			require.NoError(t, s.Set("cart", []byte(`{"a":2}`)))
			got, err = s.Get("cart")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":2}`), got, "last write wins")

			require.NoError(t, s.Delete("cart"))
			_, err = s.Get("cart")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_DeleteAbsentKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Delete("never-set"))
		})
	}
}

func TestFileStore_HostileKeyStaysInDir(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set("../../etc/passwd", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".dat"))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, fs.Set("cart", []byte("persisted")))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := reopened.Get("cart")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestFileStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, fs.Set("k", []byte("v")))

	matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
