package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileStore(path)

	token, err := store.Read()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file means no token")

	require.NoError(t, store.Write("abc"))
	token, err = store.Read()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Write("def"))
	token, err = store.Read()
	require.NoError(t, err)
	assert.Equal(t, "def", token, "write overwrites")

	require.NoError(t, store.Clear())
	token, err = store.Read()
	require.NoError(t, err)
	assert.Empty(t, token)

	assert.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, NewFileStore(path).Write("secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_TrimsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  tok\n"), 0600))

	token, err := NewFileStore(path).Read()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestDefaultTokenPath_UsesXDGDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "sitectl", "token"), DefaultTokenPath())
	assert.Equal(t, DefaultTokenPath(), NewFileStore("").Path())
}

func TestSession_LoadSetClear(t *testing.T) {
	store := NewMemoryStore("persisted")
	s := New(store)
	assert.False(t, s.Authenticated(), "token is not read until Load")

	require.NoError(t, s.Load())
	assert.True(t, s.Authenticated())
	assert.Equal(t, "persisted", s.Token())

	require.NoError(t, s.SetToken("fresh"))
	stored, _ := store.Read()
	assert.Equal(t, "fresh", stored)

	require.NoError(t, s.Clear())
	assert.False(t, s.Authenticated())
	stored, _ = store.Read()
	assert.Empty(t, stored)
}

func TestSession_NilStore(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetToken("x"))
	assert.Equal(t, "x", s.Token())
}
