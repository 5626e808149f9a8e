package backup

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/openmined/droidsync/internal/pathutil"
	"github.com/openmined/droidsync/internal/remote"
)

// fakeRemote is an in-memory device. Content is keyed by canonical
// relative path; Pull writes the bytes to the destination directory like
// adb would. Hooks let tests simulate truncated or corrupted transfers.
type fakeRemote struct {
	srcType remote.PathType
	files   map[pathutil.RelPath][]byte
	dirs    []pathutil.RelPath

	// digestOverride fakes a device-side content change without
	// touching the bytes Pull delivers.
	digestOverride map[pathutil.RelPath]string
	// pullHook replaces the default transfer when set.
	pullHook func(f pathutil.RelPath, destDir string) error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		srcType: remote.PathDir,
		files:   make(map[pathutil.RelPath][]byte),
	}
}

func (r *fakeRemote) Connected(context.Context) (bool, error) {
	return true, nil
}

func (r *fakeRemote) PathType(context.Context, string) (remote.PathType, error) {
	return r.srcType, nil
}

func (r *fakeRemote) ListTree(context.Context, string) ([]pathutil.RelPath, []pathutil.RelPath, error) {
	var files []pathutil.RelPath
	for f := range r.files {
		files = append(files, f)
	}
	return files, r.dirs, nil
}

func (r *fakeRemote) FileSize(_ context.Context, _ string, f pathutil.RelPath) (uint64, error) {
	content, ok := r.files[f]
	if !ok {
		return 0, fmt.Errorf("no such file: %s", f)
	}
	return uint64(len(content)), nil
}

func (r *fakeRemote) FileDigest(_ context.Context, _ string, f pathutil.RelPath) (string, error) {
	if digest, ok := r.digestOverride[f]; ok {
		return digest, nil
	}
	content, ok := r.files[f]
	if !ok {
		return "", fmt.Errorf("no such file: %s", f)
	}
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:]), nil
}

func (r *fakeRemote) Pull(_ context.Context, _ string, f pathutil.RelPath, destDir string) error {
	if r.pullHook != nil {
		return r.pullHook(f, destDir)
	}
	content, ok := r.files[f]
	if !ok {
		return fmt.Errorf("no such file: %s", f)
	}
	return os.WriteFile(filepath.Join(destDir, path.Base(string(f))), content, 0o644)
}
