package backup

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/openmined/droidsync/internal/localfs"
	"github.com/openmined/droidsync/internal/pathutil"
	"github.com/openmined/droidsync/internal/remote"
)

// ConfirmFunc asks the user a yes/no question. Injected so the engine
// stays testable without a terminal; --yes short-circuits it entirely.
type ConfirmFunc func(message string) bool

// Options control one engine run.
type Options struct {
	// SourcePath is the directory or file on the device to back up.
	SourcePath string
	// DestPath is the local destination directory.
	DestPath string
	// Override re-pulls every existing file, gated by confirmation.
	Override bool
	// Verify checks existing files and stops; no pull happens.
	Verify bool
	// Auto verifies, deletes faulty files and continues the backup.
	Auto bool
	// Yes skips all confirmation prompts.
	Yes bool
}

// Result is what one run produced.
type Result struct {
	Plan *Plan
	// Faulty is set when verification ran.
	Faulty mapset.Set[pathutil.RelPath]
	// Pull is nil on the verify-only path.
	Pull *PullResult
	// VerifyOnly marks the run as having ended after verification.
	VerifyOnly bool
}

// Engine sequences reconcile → (verify → repair)? → (override)? → pull.
// All state lives in the Result; nothing is shared or persisted.
type Engine struct {
	Remote  remote.FileSystem
	Local   localfs.FileSystem
	Confirm ConfirmFunc

	// OnPlan and OnFaulty let the CLI print intermediate results while
	// the run is still going. Both may be nil.
	OnPlan   func(*Plan)
	OnFaulty func([]pathutil.RelPath)
}

func NewEngine(rfs remote.FileSystem, lfs localfs.FileSystem, confirm ConfirmFunc) *Engine {
	return &Engine{
		Remote:  rfs,
		Local:   lfs,
		Confirm: confirm,
	}
}

// Run executes the full pipeline. Fatal errors (absent source, type
// conflict, path conflict) abort with no further action; per-file pull
// failures are accumulated in the Result instead.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	srcType, err := e.Remote.PathType(ctx, opts.SourcePath)
	if err != nil {
		return nil, err
	}

	remoteRoot := opts.SourcePath
	var plan *Plan

	switch srcType {
	case remote.PathNone:
		return nil, ErrSourceNotFound
	case remote.PathFile:
		remoteRoot, plan, err = e.planSingleFile(opts.SourcePath, opts.DestPath)
	case remote.PathDir:
		plan, err = e.planTree(ctx, remoteRoot, opts.DestPath)
	default:
		err = fmt.Errorf("unsupported source path type %q", srcType)
	}
	if err != nil {
		return nil, err
	}

	if e.OnPlan != nil {
		e.OnPlan(plan)
	}

	result := &Result{Plan: plan}

	if opts.Verify || opts.Auto {
		faulty, err := Verify(ctx, e.Remote, e.Local, remoteRoot, opts.DestPath, plan.ExistingFiles)
		if err != nil {
			return nil, err
		}
		result.Faulty = faulty
		if e.OnFaulty != nil {
			e.OnFaulty(sortedPaths(faulty))
		}

		if faulty.Cardinality() > 0 && e.confirmed(opts.Yes, "Delete faulty files?") {
			slog.Info("deleting faulty files", "count", faulty.Cardinality())
			for _, f := range sortedPaths(faulty) {
				if err := e.Local.Remove(pathutil.JoinLocal(opts.DestPath, f)); err != nil {
					return nil, fmt.Errorf("delete faulty file %q: %w", f, err)
				}
			}
		}

		// repair-by-redownload: faulty files go back to missing
		plan.MissingFiles = plan.MissingFiles.Union(faulty)
		plan.ExistingFiles = plan.ExistingFiles.Difference(faulty)

		// verify-only is a terminal path; only --auto continues to pull
		if opts.Verify && !opts.Auto {
			result.VerifyOnly = true
			return result, nil
		}
	}

	if opts.Override && e.confirmed(opts.Yes, "Confirm overriding.") {
		slog.Info("overriding existing files", "count", plan.ExistingFiles.Cardinality())
		plan.MissingFiles = plan.MissingFiles.Union(plan.ExistingFiles)
	}

	pullResult, err := Pull(ctx, e.Remote, e.Local, remoteRoot, opts.DestPath, plan.MissingDirs, plan.MissingFiles)
	if err != nil {
		return nil, err
	}
	result.Pull = pullResult

	return result, nil
}

// planTree reconciles a directory source against the destination.
func (e *Engine) planTree(ctx context.Context, remoteRoot, destPath string) (*Plan, error) {
	remoteSnap, err := SnapshotRemote(ctx, e.Remote, remoteRoot)
	if err != nil {
		return nil, err
	}
	localSnap, err := SnapshotLocal(e.Local, destPath)
	if err != nil {
		return nil, err
	}
	return Reconcile(remoteSnap, localSnap)
}

// planSingleFile handles a source path that is itself a file: the plan
// degenerates to one entry and the source's parent becomes the root.
func (e *Engine) planSingleFile(srcPath, destPath string) (string, *Plan, error) {
	remoteRoot, name := pathutil.SplitRemote(srcPath)
	plan := newPlan()

	localPath := pathutil.JoinLocal(destPath, name)
	if e.Local.Exists(localPath) {
		if !e.Local.IsFile(localPath) {
			return "", nil, &TypeConflictError{Paths: []pathutil.RelPath{name}}
		}
		plan.ExistingFiles.Add(name)
	} else {
		plan.MissingFiles.Add(name)
	}

	return remoteRoot, plan, nil
}

func (e *Engine) confirmed(yes bool, message string) bool {
	if yes {
		return true
	}
	if e.Confirm == nil {
		return false
	}
	return e.Confirm(message)
}
