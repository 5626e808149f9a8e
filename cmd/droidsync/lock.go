package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/openmined/droidsync/internal/backup"
)

// lockDestination takes an exclusive lock on the destination tree so two
// runs cannot pull into it concurrently. The caller unlocks when done.
func lockDestination(destPath string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(destPath, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock destination: %w", err)
	}
	if !locked {
		return nil, &backup.PreconditionError{Msg: "Another droidsync run is using this destination."}
	}
	return lock, nil
}
