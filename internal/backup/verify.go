package backup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/openmined/droidsync/internal/localfs"
	"github.com/openmined/droidsync/internal/pathutil"
	"github.com/openmined/droidsync/internal/remote"
	"golang.org/x/sync/errgroup"
)

// verifyWorkers bounds concurrent remote hashing queries. The result set
// is keyed by path, so the interleaving cannot change it.
const verifyWorkers = 4

type fileRecord struct {
	size   uint64
	digest string
}

// Verify re-hashes and re-sizes every existing file on both sides and
// returns the subset that mismatches on either digest or size. The size
// check does not substitute for the digest check; both run for every file.
func Verify(ctx context.Context, rfs remote.FileSystem, lfs localfs.FileSystem, remoteRoot, localRoot string, existing mapset.Set[pathutil.RelPath]) (mapset.Set[pathutil.RelPath], error) {
	paths := sortedPaths(existing)
	faulty := mapset.NewSet[pathutil.RelPath]()
	if len(paths) == 0 {
		return faulty, nil
	}

	slog.Info("verifying existing files", "count", len(paths))

	var mu sync.Mutex
	remoteRecords := make(map[pathutil.RelPath]fileRecord, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyWorkers)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			digest, err := rfs.FileDigest(gctx, remoteRoot, p)
			if err != nil {
				return fmt.Errorf("remote digest %q: %w", p, err)
			}
			size, err := rfs.FileSize(gctx, remoteRoot, p)
			if err != nil {
				return fmt.Errorf("remote size %q: %w", p, err)
			}
			mu.Lock()
			remoteRecords[p] = fileRecord{size: size, digest: digest}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range paths {
		localPath := pathutil.JoinLocal(localRoot, p)
		digest, err := lfs.FileDigest(localPath)
		if err != nil {
			return nil, fmt.Errorf("local digest %q: %w", p, err)
		}
		size, err := lfs.FileSize(localPath)
		if err != nil {
			return nil, fmt.Errorf("local size %q: %w", p, err)
		}

		rec := remoteRecords[p]
		if digest != rec.digest || size != rec.size {
			slog.Warn("faulty file", "path", p, "remoteSize", rec.size, "localSize", size)
			faulty.Add(p)
		}
	}

	return faulty, nil
}
