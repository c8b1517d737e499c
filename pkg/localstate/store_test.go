package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "state.json"))
}

func TestRecentsCapAndDedupe(t *testing.T) {
	s := testStore(t)
	for _, id := range []string{"a", "b", "c", "b", "d", "e", "f", "b"} {
		require.NoError(t, s.PushRecent(id))
	}
	got := s.RecentTools()
	assert.LessOrEqual(t, len(got), MaxRecent)
	assert.Equal(t, []string{"b", "f", "e", "d", "c"}, got)

	seen := map[string]bool{}
	for _, id := range got {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestRepeatedSelectionKeepsSingleEntry(t *testing.T) {
	s := testStore(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.PushRecent("same"))
	}
	assert.Equal(t, []string{"same"}, s.RecentTools())
}

func TestToggleFavorite(t *testing.T) {
	s := testStore(t)
	on, err := s.ToggleFavorite("x")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"x"}, s.FavoriteTools())

	off, err := s.ToggleFavorite("x")
	require.NoError(t, err)
	assert.False(t, off)
	assert.Empty(t, s.FavoriteTools())
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := Open(path)
	require.NoError(t, s.PushRecent("a"))
	_, err := s.ToggleFavorite("b")
	require.NoError(t, err)

	reopened := Open(path)
	assert.Equal(t, []string{"a"}, reopened.RecentTools())
	assert.Equal(t, []string{"b"}, reopened.FavoriteTools())
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	s := Open(path)
	assert.Empty(t, s.RecentTools())
	assert.Empty(t, s.FavoriteTools())
}
