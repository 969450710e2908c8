package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdcli/td/internal/types"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStoreAt(t.TempDir())

	now := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	c := New()
	c.SyncToken = "tok-99"
	c.FullSyncDateUTC = &now
	c.LastSync = &now
	c.Items = []types.Item{{ID: "1", ProjectID: "p1", Content: "Buy milk", Priority: 4, Labels: []string{"errand"}}}
	c.Projects = []types.Project{{ID: "p1", Name: "Inbox"}}
	c.User = &types.User{ID: "u1", FullName: "Ada"}
	c.RebuildIndexes()

	require.NoError(t, s.Save(c))
	require.True(t, s.Exists())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-99", got.SyncToken)
	assert.Equal(t, now, *got.FullSyncDateUTC)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Buy milk", got.Items[0].Content)
	assert.Equal(t, "Ada", got.User.FullName)

	// indexes come back after load without being serialized
	assert.NotNil(t, got.ItemByID("1"))
	assert.NotNil(t, got.ProjectByName("inbox"))
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file yields a fresh cache", func(t *testing.T) {
		s := NewStoreAt(t.TempDir())
		c, err := s.LoadOrDefault()
		require.NoError(t, err)
		assert.True(t, c.NeedsFullSync())
	})

	t.Run("corrupt file propagates the error", func(t *testing.T) {
		dir := t.TempDir()
		s := NewStoreAt(dir)
		require.NoError(t, os.WriteFile(s.Path(), []byte("{truncated"), 0o600))
		_, err := s.LoadOrDefault()
		require.Error(t, err)
	})
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStoreAt(dir)
	require.NoError(t, s.Save(New()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "td")
	s := NewStoreAt(dir)
	require.NoError(t, s.Save(New()))
	assert.True(t, s.Exists())
}

func TestDelete(t *testing.T) {
	s := NewStoreAt(t.TempDir())
	require.NoError(t, s.Save(New()))
	require.NoError(t, s.Delete())
	assert.False(t, s.Exists())

	// deleting again is still success
	require.NoError(t, s.Delete())
}

func TestAsyncVariants(t *testing.T) {
	s := NewStoreAt(t.TempDir())
	c := New()
	c.SyncToken = "tok-async"

	require.NoError(t, <-s.SaveAsync(c))

	res := <-s.LoadAsync()
	require.NoError(t, res.Err)
	assert.Equal(t, "tok-async", res.Cache.SyncToken)

	require.NoError(t, <-s.DeleteAsync())
	assert.False(t, s.Exists())
}
