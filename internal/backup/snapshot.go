// Package backup implements the reconciliation and verified-transfer engine:
// diff a remote tree listing against a local one, verify or repair files
// already present, and pull missing content with per-file outcome
// classification. Nothing is persisted between runs; every run re-lists
// and re-hashes from scratch, which is what makes re-runs safe.
package backup

import (
	"context"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/openmined/droidsync/internal/localfs"
	"github.com/openmined/droidsync/internal/pathutil"
	"github.com/openmined/droidsync/internal/remote"
)

// Snapshot is one side's full recursive listing at one point in time,
// keyed by canonical relative path.
type Snapshot struct {
	Files mapset.Set[pathutil.RelPath]
	Dirs  mapset.Set[pathutil.RelPath]
}

func NewSnapshot(files, dirs []pathutil.RelPath) Snapshot {
	return Snapshot{
		Files: mapset.NewSet(files...),
		Dirs:  mapset.NewSet(dirs...),
	}
}

// SnapshotRemote lists the device tree under root in full.
func SnapshotRemote(ctx context.Context, rfs remote.FileSystem, root string) (Snapshot, error) {
	files, dirs, err := rfs.ListTree(ctx, root)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(files, dirs), nil
}

// SnapshotLocal lists the local tree under root in full.
func SnapshotLocal(lfs localfs.FileSystem, root string) (Snapshot, error) {
	files, dirs, err := lfs.ListTree(root)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(files, dirs), nil
}

// sortedPaths returns the set members in lexical order, which also puts
// parent directories before their children.
func sortedPaths(s mapset.Set[pathutil.RelPath]) []pathutil.RelPath {
	paths := s.ToSlice()
	slices.Sort(paths)
	return paths
}
