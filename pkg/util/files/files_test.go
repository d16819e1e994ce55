package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	exists, err := Exists(path)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = Exists(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	require.False(t, exists)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	isDir, err := IsDir(dir)
	require.NoError(t, err)
	require.True(t, isDir)

	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	isDir, err = IsDir(path)
	require.NoError(t, err)
	require.False(t, isDir)
}

func TestIsEmpty(t *testing.T) {
	dir := t.TempDir()
	empty, err := IsEmpty(dir)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte{}, 0o644))
	empty, err = IsEmpty(dir)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test-file")
	err := os.WriteFile(path, []byte{}, 0o644)
	require.NoError(t, err)

	require.False(t, IsExecutable(path))
	require.NoError(t, os.Chmod(path, 0o744))
	require.True(t, IsExecutable(path))
}
