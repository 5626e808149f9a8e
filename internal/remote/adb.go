package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/openmined/droidsync/internal/pathutil"
)

var ErrADBNotAvailable = errors.New("adb is not available on this system")

var (
	// serial + state lines of `adb devices` output
	deviceLineRegex = regexp.MustCompile(`(?m)^[a-z0-9]+\s+device$`)
	sha1Regex       = regexp.MustCompile(`^[0-9a-f]{40}$`)
)

// statCacheSize bounds the per-run memo of remote stat/sha1sum results.
// A size or digest is queried once for verification or the pull estimate
// and again for post-pull classification; the memo keeps each of those a
// single device round trip. Nothing survives the process.
const statCacheSize = 16384

// ADB is a FileSystem over the adb command-line tool.
type ADB struct {
	path    string
	sizes   *lru.Cache[string, uint64]
	digests *lru.Cache[string, string]
}

// NewADB returns an ADB bound to the given adb binary, or the one found
// in PATH when adbPath is empty.
func NewADB(adbPath string) (*ADB, error) {
	if adbPath == "" {
		found, err := exec.LookPath("adb")
		if err != nil {
			return nil, ErrADBNotAvailable
		}
		adbPath = found
	}

	sizes, err := lru.New[string, uint64](statCacheSize)
	if err != nil {
		return nil, err
	}
	digests, err := lru.New[string, string](statCacheSize)
	if err != nil {
		return nil, err
	}

	return &ADB{path: adbPath, sizes: sizes, digests: digests}, nil
}

// Path returns the adb binary in use.
func (a *ADB) Path() string {
	return a.path
}

func (a *ADB) Connected(ctx context.Context) (bool, error) {
	out, err := a.run(ctx, "devices")
	if err != nil {
		return false, err
	}
	return deviceLineRegex.MatchString(out), nil
}

func (a *ADB) PathType(ctx context.Context, path string) (PathType, error) {
	q := shellQuote(path)
	out, err := a.run(ctx, "shell",
		fmt.Sprintf("test -f %s && echo file || (test -d %s && echo directory || echo none)", q, q))
	if err != nil {
		return PathNone, err
	}
	switch PathType(out) {
	case PathFile, PathDir, PathNone:
		return PathType(out), nil
	default:
		return PathNone, fmt.Errorf("unexpected path type %q for %q", out, path)
	}
}

func (a *ADB) ListTree(ctx context.Context, root string) ([]pathutil.RelPath, []pathutil.RelPath, error) {
	// one round trip per kind; -L follows symlinked files as regular files
	filesOut, err := a.run(ctx, "shell",
		fmt.Sprintf("cd %s && find -L . -type f", shellQuote(root)))
	if err != nil {
		return nil, nil, fmt.Errorf("list files %q: %w", root, err)
	}
	dirsOut, err := a.run(ctx, "shell",
		fmt.Sprintf("cd %s && find -L . -type d", shellQuote(root)))
	if err != nil {
		return nil, nil, fmt.Errorf("list dirs %q: %w", root, err)
	}

	return parseFindOutput(filesOut), parseFindOutput(dirsOut), nil
}

func (a *ADB) FileSize(ctx context.Context, root string, path pathutil.RelPath) (uint64, error) {
	full := pathutil.JoinRemote(root, path)
	if size, ok := a.sizes.Get(full); ok {
		return size, nil
	}

	out, err := a.run(ctx, "shell", fmt.Sprintf("stat -c %%s %s", shellQuote(full)))
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", full, err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, fmt.Errorf("stat %q: empty output", full)
	}
	size, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stat %q: bad size %q: %w", full, fields[0], err)
	}

	a.sizes.Add(full, size)
	return size, nil
}

func (a *ADB) FileDigest(ctx context.Context, root string, path pathutil.RelPath) (string, error) {
	full := pathutil.JoinRemote(root, path)
	if digest, ok := a.digests.Get(full); ok {
		return digest, nil
	}

	out, err := a.run(ctx, "shell", fmt.Sprintf("sha1sum %s", shellQuote(full)))
	if err != nil {
		return "", fmt.Errorf("sha1sum %q: %w", full, err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 || !sha1Regex.MatchString(fields[0]) {
		return "", fmt.Errorf("sha1sum %q: unexpected output %q", full, out)
	}

	a.digests.Add(full, fields[0])
	return fields[0], nil
}

func (a *ADB) Pull(ctx context.Context, root string, path pathutil.RelPath, destDir string) error {
	full := pathutil.JoinRemote(root, path)
	if _, err := a.run(ctx, "pull", full, destDir); err != nil {
		return fmt.Errorf("pull %q: %w", full, err)
	}
	return nil
}

// run executes adb with the given arguments and returns its stdout with
// the CR padding adb shell adds stripped off.
func (a *ADB) run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("adb %s failed: %q: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}

	out := strings.ReplaceAll(stdout.String(), "\r\r", "")
	out = strings.ReplaceAll(out, "\r\n", "\n")
	return strings.TrimSpace(out), nil
}

// parseFindOutput turns `find .` output into canonical relative paths,
// dropping the leading `./` and the `.` entry itself.
func parseFindOutput(out string) []pathutil.RelPath {
	if out == "" {
		return nil
	}

	var paths []pathutil.RelPath
	for _, line := range strings.Split(out, "\n") {
		// only CR padding is stripped; a trailing space can be part of
		// the remote filename
		line = strings.TrimRight(line, "\r")
		if line == "" || line == "." {
			continue
		}
		line = strings.TrimPrefix(line, "./")
		paths = append(paths, pathutil.RelPath(line))
	}
	return paths
}

// shellQuote single-quotes s for the device shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
