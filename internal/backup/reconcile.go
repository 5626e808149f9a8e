package backup

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/openmined/droidsync/internal/pathutil"
)

// Plan is the reconciler's output: which remote entries are already
// present locally and which still have to be transferred. The four sets
// partition the remote snapshot: MissingFiles ∪ ExistingFiles equals the
// remote file set and the two are disjoint, same for dirs.
type Plan struct {
	MissingFiles  mapset.Set[pathutil.RelPath]
	ExistingFiles mapset.Set[pathutil.RelPath]
	MissingDirs   mapset.Set[pathutil.RelPath]
	ExistingDirs  mapset.Set[pathutil.RelPath]
}

func newPlan() *Plan {
	return &Plan{
		MissingFiles:  mapset.NewSet[pathutil.RelPath](),
		ExistingFiles: mapset.NewSet[pathutil.RelPath](),
		MissingDirs:   mapset.NewSet[pathutil.RelPath](),
		ExistingDirs:  mapset.NewSet[pathutil.RelPath](),
	}
}

// Reconcile computes the plan from the two snapshots. It fails with a
// TypeConflictError when any path is a file on one side and a directory
// on the other; that contradiction is never resolved silently.
func Reconcile(remoteSnap, localSnap Snapshot) (*Plan, error) {
	conflicts := remoteSnap.Files.Intersect(localSnap.Dirs).
		Union(remoteSnap.Dirs.Intersect(localSnap.Files))
	if conflicts.Cardinality() > 0 {
		return nil, &TypeConflictError{Paths: sortedPaths(conflicts)}
	}

	return &Plan{
		MissingFiles:  remoteSnap.Files.Difference(localSnap.Files),
		ExistingFiles: remoteSnap.Files.Intersect(localSnap.Files),
		MissingDirs:   remoteSnap.Dirs.Difference(localSnap.Dirs),
		ExistingDirs:  remoteSnap.Dirs.Intersect(localSnap.Dirs),
	}, nil
}
