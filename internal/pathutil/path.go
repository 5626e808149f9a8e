package pathutil

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// RelPath is a path relative to a sync root, always in canonical
// slash-separated (linux) form. It is the comparison key between the
// device side and the local side, so equality is plain string equality.
type RelPath string

// FromLocal converts a local-separator relative path to canonical form.
func FromLocal(rel string) RelPath {
	return RelPath(strings.ReplaceAll(rel, string(filepath.Separator), "/"))
}

// Local returns the path in the local OS separator form. This is the only
// place slash form is translated; everything above the filesystem boundary
// works with canonical paths.
func (p RelPath) Local() string {
	return strings.ReplaceAll(string(p), "/", string(filepath.Separator))
}

func (p RelPath) String() string {
	return string(p)
}

// Base returns the last element of the path.
func (p RelPath) Base() RelPath {
	return RelPath(path.Base(string(p)))
}

// JoinLocal joins a local root directory with a canonical relative path.
func JoinLocal(root string, p RelPath) string {
	return filepath.Join(root, p.Local())
}

// JoinRemote joins a remote (linux-style) root with a canonical relative
// path. Never uses filepath, which would break on windows hosts.
func JoinRemote(root string, p RelPath) string {
	if root == "" {
		return string(p)
	}
	return strings.TrimSuffix(root, "/") + "/" + string(p)
}

// SplitRemote splits a remote path into its parent directory and base name.
func SplitRemote(remotePath string) (dir string, base RelPath) {
	return path.Dir(remotePath), RelPath(path.Base(remotePath))
}

func ResolvePath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}

	// Expand `~` to the user's home directory
	if strings.HasPrefix(p, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("failed to retrieve home directory")
		}
		p = strings.Replace(p, "~", homeDir, 1)
	}

	// Resolve relative paths (.., .) and return an absolute path
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	return filepath.Clean(absPath), nil
}
