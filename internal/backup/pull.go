package backup

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"github.com/openmined/droidsync/internal/localfs"
	"github.com/openmined/droidsync/internal/pathutil"
	"github.com/openmined/droidsync/internal/remote"
)

// PullFailure is one file that did not make it intact.
type PullFailure struct {
	Path    pathutil.RelPath
	Outcome PullOutcome
}

// PullResult accumulates per-file outcomes for a whole pull phase.
// Per-file failures never abort the phase; they end up here.
type PullResult struct {
	Succeeded []pathutil.RelPath
	Failed    []PullFailure
}

// Pull creates the missing local directories, then transfers each missing
// file once and classifies the outcome. Directory creation is idempotent;
// a same-named file in the way is a fatal PathConflictError. Transfers
// that arrive truncated or corrupted are deleted so the next run sees
// them as missing again.
func Pull(ctx context.Context, rfs remote.FileSystem, lfs localfs.FileSystem, remoteRoot, localRoot string, missingDirs, missingFiles mapset.Set[pathutil.RelPath]) (*PullResult, error) {
	// parents sort before children, so creation order is safe even
	// without MkdirAll's intermediate handling
	for _, d := range sortedPaths(missingDirs) {
		localPath := pathutil.JoinLocal(localRoot, d)
		if lfs.Exists(localPath) && !lfs.IsDir(localPath) {
			return nil, &PathConflictError{Path: localPath}
		}
		if err := lfs.MkdirAll(localPath); err != nil {
			return nil, fmt.Errorf("create directory %q: %w", localPath, err)
		}
	}

	result := &PullResult{}
	files := sortedPaths(missingFiles)
	if len(files) == 0 {
		return result, nil
	}

	// size every file up front: the total drives progress reporting and
	// the pre-transfer size is what WrongSize is judged against
	sizes := make(map[pathutil.RelPath]uint64, len(files))
	var total uint64
	for _, f := range files {
		size, err := rfs.FileSize(ctx, remoteRoot, f)
		if err != nil {
			slog.Warn("cannot size remote file, skipping", "path", f, "error", err)
			result.Failed = append(result.Failed, PullFailure{Path: f, Outcome: PullNotPulled})
			continue
		}
		sizes[f] = size
		total += size
	}

	slog.Info("pulling missing files", "count", len(sizes), "total", humanize.IBytes(total))

	var done uint64
	for _, f := range files {
		size, ok := sizes[f]
		if !ok {
			continue
		}

		outcome := pullOne(ctx, rfs, lfs, remoteRoot, localRoot, f, size)
		if outcome == PullSuccess {
			result.Succeeded = append(result.Succeeded, f)
		} else {
			slog.Warn("pull failed", "path", f, "outcome", outcome)
			result.Failed = append(result.Failed, PullFailure{Path: f, Outcome: outcome})
		}

		// progress counts attempted bytes, monotonically
		done += size
		slog.Info("pull progress", "path", f, "outcome", outcome,
			"done", humanize.IBytes(done), "total", humanize.IBytes(total))
	}

	return result, nil
}

// pullOne transfers a single file and classifies the result. The partial
// artifact is removed on WrongSize and WrongHash so a re-run re-pulls it.
func pullOne(ctx context.Context, rfs remote.FileSystem, lfs localfs.FileSystem, remoteRoot, localRoot string, f pathutil.RelPath, remoteSize uint64) PullOutcome {
	destPath := pathutil.JoinLocal(localRoot, f)
	destDir := filepath.Dir(destPath)

	if err := rfs.Pull(ctx, remoteRoot, f, destDir); err != nil {
		slog.Warn("transfer error", "path", f, "error", err)
	}

	// never arrived: nothing to delete
	if !lfs.IsFile(destPath) {
		return PullNotPulled
	}

	localSize, err := lfs.FileSize(destPath)
	if err != nil || localSize != remoteSize {
		removeArtifact(lfs, destPath)
		return PullWrongSize
	}

	remoteDigest, err := rfs.FileDigest(ctx, remoteRoot, f)
	if err != nil {
		// unverifiable counts as corrupt: keeping the bytes would mark
		// the file done without proof
		slog.Warn("cannot digest remote file", "path", f, "error", err)
		removeArtifact(lfs, destPath)
		return PullWrongHash
	}
	localDigest, err := lfs.FileDigest(destPath)
	if err != nil || localDigest != remoteDigest {
		removeArtifact(lfs, destPath)
		return PullWrongHash
	}

	return PullSuccess
}

func removeArtifact(lfs localfs.FileSystem, path string) {
	if err := lfs.Remove(path); err != nil {
		slog.Error("failed to delete corrupt artifact", "path", path, "error", err)
	}
}
