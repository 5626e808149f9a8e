package backup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openmined/droidsync/internal/pathutil"
)

// ErrSourceNotFound means the source path does not exist on the device.
// Fatal; nothing has been mutated when it is returned.
var ErrSourceNotFound = errors.New("source path does not exist on the device")

// PullOutcome classifies a single file transfer attempt. The values match
// the failure taxonomy of the device tooling: the file never arrived,
// arrived truncated, or arrived corrupted.
type PullOutcome string

const (
	PullSuccess   PullOutcome = "success"
	PullNotPulled PullOutcome = "not_pulled"
	PullWrongSize PullOutcome = "wrong_size"
	PullWrongHash PullOutcome = "wrong_hash"
)

// PreconditionError is a fatal pre-mutation failure: bad adb binary, bad
// destination directory, device unreachable.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

// TypeConflictError means the same relative path is a file on one side
// and a directory on the other. The engine refuses to guess a resolution.
type TypeConflictError struct {
	Paths []pathutil.RelPath
}

func (e *TypeConflictError) Error() string {
	lines := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		lines[i] = string(p)
	}
	return fmt.Sprintf("the following paths are files on one side and directories on the other:\n\t%s",
		strings.Join(lines, "\n\t"))
}

// PathConflictError means a local directory could not be created because
// a file of the same name is in the way.
type PathConflictError struct {
	Path string
}

func (e *PathConflictError) Error() string {
	return fmt.Sprintf("cannot create directory, a file is in the way: %s", e.Path)
}
