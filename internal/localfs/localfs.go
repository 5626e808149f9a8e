// Package localfs wraps the local filesystem primitives the sync engine
// needs, so the engine can be tested against fakes and so path separator
// translation stays at one boundary.
package localfs

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openmined/droidsync/internal/pathutil"
)

// digestChunkSize keeps hashing memory-bounded for multi-GB media files.
const digestChunkSize = 128 * 1024

// FileSystem is the local side of a backup.
type FileSystem interface {
	Exists(path string) bool
	IsFile(path string) bool
	IsDir(path string) bool
	FileSize(path string) (uint64, error)
	// FileDigest returns the lowercase hex SHA-1 of the file contents,
	// the same format the device's sha1sum tool prints.
	FileDigest(path string) (string, error)
	// MkdirAll creates the directory and any missing parents. Calling it
	// on an existing directory is not an error.
	MkdirAll(path string) error
	Remove(path string) error
	// ListTree returns all files and directories under root, recursively,
	// as canonical relative paths. The root itself is not included.
	ListTree(root string) (files, dirs []pathutil.RelPath, err error)
}

// OS is the real-filesystem implementation of FileSystem.
type OS struct{}

func NewOS() *OS {
	return &OS{}
}

func (*OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (*OS) IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (*OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (*OS) FileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

func (*OS) FileDigest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha1.New()
	buf := make([]byte, digestChunkSize)
	if _, err := io.CopyBuffer(hash, file, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

func (*OS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (*OS) Remove(path string) error {
	return os.Remove(path)
}

func (*OS) ListTree(root string) ([]pathutil.RelPath, []pathutil.RelPath, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("list %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("list %q: not a directory", root)
	}

	var files, dirs []pathutil.RelPath
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, pathutil.FromLocal(rel))
		} else {
			files = append(files, pathutil.FromLocal(rel))
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list %q: %w", root, err)
	}

	return files, dirs, nil
}
