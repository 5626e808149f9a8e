package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openmined/droidsync/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDigest(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "hello.txt")
	err := os.WriteFile(path, []byte("hello world"), 0o644)
	require.NoError(t, err)

	lfs := NewOS()
	digest, err := lfs.FileDigest(path)
	require.NoError(t, err)
	// sha1("hello world")
	assert.Equal(t, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed", digest)
}

func TestFileDigestEmptyFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	lfs := NewOS()
	digest, err := lfs.FileDigest(path)
	require.NoError(t, err)
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", digest)
}

func TestFileSize(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "sized")
	require.NoError(t, os.WriteFile(path, make([]byte, 1234), 0o644))

	lfs := NewOS()
	size, err := lfs.FileSize(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), size)
}

func TestListTree(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "dirA", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "f2"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "dirA", "f1"), []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "dirA", "sub", "f3"), []byte("z"), 0o644))

	lfs := NewOS()
	files, dirs, err := lfs.ListTree(tempDir)
	require.NoError(t, err)

	assert.ElementsMatch(t, []pathutil.RelPath{"f2", "dirA/f1", "dirA/sub/f3"}, files)
	assert.ElementsMatch(t, []pathutil.RelPath{"dirA", "dirA/sub"}, dirs)
}

func TestListTreeMissingRoot(t *testing.T) {
	lfs := NewOS()
	_, _, err := lfs.ListTree(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestListTreeRootIsFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "afile")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	lfs := NewOS()
	_, _, err := lfs.ListTree(path)
	assert.ErrorContains(t, err, "not a directory")
}

func TestMkdirAllIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, "a", "b")

	lfs := NewOS()
	require.NoError(t, lfs.MkdirAll(dir))
	require.NoError(t, lfs.MkdirAll(dir))
	assert.True(t, lfs.IsDir(dir))
}
