package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KuzscoTech/maas-management/internal/platform"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	snap := Snapshot{
		User: &platform.User{
			ID:       "user-1",
			Email:    "a@b.com",
			FullName: "Ada Byron",
		},
		AccessToken:     "access-1",
		RefreshToken:    "refresh-1",
		IsAuthenticated: true,
	}
	require.NoError(t, store.Save(snap))

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "access-1", loaded.AccessToken)
	assert.Equal(t, "refresh-1", loaded.RefreshToken)
	assert.True(t, loaded.IsAuthenticated)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "a@b.com", loaded.User.Email)
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(Snapshot{AccessToken: "secret"}))

	info, err := os.Stat(filepath.Join(dir, "auth.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "token file must not be world-readable")
}

func TestFileStoreClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(Snapshot{AccessToken: "secret"}))

	require.NoError(t, store.Clear())
	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an already-empty store is not an error.
	require.NoError(t, store.Clear())
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "maas")
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(Snapshot{AccessToken: "secret"}))

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.json"), []byte("{not json"), 0600))

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	_, ok, err := store.Load()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(Snapshot{AccessToken: "access-1", IsAuthenticated: true}))
	snap, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "access-1", snap.AccessToken)

	require.NoError(t, store.Clear())
	_, ok, err = store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
