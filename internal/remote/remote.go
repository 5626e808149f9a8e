// Package remote models the device side of a backup. The only access to
// the device is a narrow shell-command channel, so everything here is
// expressed as round trips: list, stat, hash, pull.
package remote

import (
	"context"

	"github.com/openmined/droidsync/internal/pathutil"
)

// PathType classifies what a remote path points at.
type PathType string

const (
	PathFile PathType = "file"
	PathDir  PathType = "directory"
	PathNone PathType = "none"
)

// FileSystem is the device side of a backup. Pull is best-effort: the
// caller verifies the transfer with FileSize and FileDigest afterwards,
// a nil return from Pull alone proves nothing.
type FileSystem interface {
	// Connected reports whether a device is attached and authorized.
	Connected(ctx context.Context) (bool, error)
	PathType(ctx context.Context, path string) (PathType, error)
	// ListTree returns all files and directories under root, recursively,
	// as canonical relative paths. Symlinks are followed.
	ListTree(ctx context.Context, root string) (files, dirs []pathutil.RelPath, err error)
	FileSize(ctx context.Context, root string, path pathutil.RelPath) (uint64, error)
	// FileDigest returns the lowercase hex SHA-1 of the remote file, as
	// printed by the device's sha1sum tool.
	FileDigest(ctx context.Context, root string, path pathutil.RelPath) (string, error)
	// Pull copies the remote file into destDir, keeping its base name.
	Pull(ctx context.Context, root string, path pathutil.RelPath, destDir string) error
}
